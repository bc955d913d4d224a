package netmsg

import "sync"

// BufferPool 线程安全的帧缓冲区池
type BufferPool struct {
	pool sync.Pool
	size int
}

// 全局缓冲区池, 用于组装发送帧
var bufferPool = NewBufferPool(4096)

// NewBufferPool 创建新的缓冲区池, size 为默认容量
func NewBufferPool(size int) *BufferPool {
	p := &BufferPool{size: size}
	p.pool.New = func() interface{} {
		buf := make([]byte, 0, p.size)
		return &buf
	}
	return p
}

// Get 获取长度为 size 的缓冲区，如果容量不足会重新分配
func (p *BufferPool) Get(size int) []byte {
	bufPtr := p.pool.Get().(*[]byte)
	buf := *bufPtr
	if cap(buf) < size {
		buf = make([]byte, 0, size)
	}
	return buf[:size]
}

// Put 归还缓冲区到池中, 超过 MaxMsgSize 的缓冲区直接丢弃
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) == 0 || cap(buf) > MaxMsgSize {
		return
	}
	buf = buf[:0]
	p.pool.Put(&buf)
}

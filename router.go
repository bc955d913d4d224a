package netmsg

type HandlerFunc[T ID] func(ctx *Context[T])

// Router dispatches inbound messages to handler chains by header tag.
// Register everything before serving; the router is read concurrently by workers.
type Router[T ID] struct {
	middlewares []HandlerFunc[T]
	handlers    map[T][]HandlerFunc[T]
}

func NewRouter[T ID]() *Router[T] {
	r := &Router[T]{
		middlewares: make([]HandlerFunc[T], 0),
		handlers:    make(map[T][]HandlerFunc[T]),
	}
	return r
}

func (r *Router[T]) Use(middleware ...HandlerFunc[T]) {
	r.middlewares = append(r.middlewares, middleware...)
}

func (r *Router[T]) Register(msgID T, handlers ...HandlerFunc[T]) {
	r.handlers[msgID] = append(r.handlers[msgID], handlers...)
}

func (r *Router[T]) GetMiddlewares() []HandlerFunc[T] {
	return r.middlewares
}

func (r *Router[T]) GetHandlers(msgID T) []HandlerFunc[T] {
	return r.handlers[msgID]
}

// chain returns middlewares followed by the handlers for msgID, or nil when
// no handler is registered.
func (r *Router[T]) chain(msgID T) []HandlerFunc[T] {
	handlers := r.handlers[msgID]
	if len(handlers) == 0 {
		return nil
	}
	c := make([]HandlerFunc[T], 0, len(r.middlewares)+len(handlers))
	c = append(c, r.middlewares...)
	return append(c, handlers...)
}

package framecheck

// errorHandler accumulates SchemaErrors under an eager or lazy policy. One
// instance is created per Validate call; nothing is shared across calls.
type errorHandler struct {
	lazy      bool
	collected []*SchemaError
}

func newErrorHandler(lazy bool) *errorHandler {
	return &errorHandler{lazy: lazy}
}

// collect records one failure. In eager mode the failure is handed straight
// back to terminate the call; in lazy mode it is appended in execution
// order and nil is returned.
func (h *errorHandler) collect(err *SchemaError) error {
	if !h.lazy {
		return err
	}
	h.collected = append(h.collected, err)
	return nil
}

func (h *errorHandler) hasErrors() bool { return len(h.collected) > 0 }

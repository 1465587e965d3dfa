package apperror

// Split separates a domain failure from an unexpected one. Request-reply
// handlers put the domain part in the reply body and return the other as the
// handler error.
func Split(err error) (*Error, error) {
	if err == nil {
		return nil, nil
	}
	if e, ok := As(err); ok {
		return e, nil
	}
	return nil, err
}

package runtime

// Must panics on a non-nil error. Only for startup wiring.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

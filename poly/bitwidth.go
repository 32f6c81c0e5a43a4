package poly

// BitWidth returns the number of bits held by the word's underlying
// type. Exported so gf can reason about container width generically
// when building cross-width reduction tables.
func BitWidth[T Unsigned]() uint {
	return bitWidth[T]()
}

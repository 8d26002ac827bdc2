package jscdump

// Fuzz is a go-fuzz entrypoint: it exercises the full parse pipeline against
// arbitrary input and reports whether a .jsc-shaped buffer decoded cleanly,
// so the fuzzer can steer towards inputs that reach deeper into the
// deserializer and disassembler without crashing them.
func Fuzz(data []byte) int {
	f, err := NewBytes(data, &Options{Quiet: true})
	if err != nil {
		return 0
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		return 0
	}
	return 1
}

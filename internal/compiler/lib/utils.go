package lib

// InstructionWidth is the number of words one instruction occupies in the
// VM's code space (op, L, M). Jump targets are expressed in words.
const InstructionWidth = 3

// CodeAddress converts an instruction index to a code address.
func CodeAddress(index int) int {
	return index * InstructionWidth
}

// CodeIndex converts a code address back to an instruction index. The second
// result is false for addresses that fall inside an instruction.
func CodeIndex(addr int) (int, bool) {
	if addr < 0 || addr%InstructionWidth != 0 {
		return -1, false
	}
	return addr / InstructionWidth, true
}

// DigitWidth is the number of characters needed to print val in decimal,
// including a leading minus sign.
func DigitWidth(val int) int {
	width := 1
	if val < 0 {
		width++
		val = -val
	}
	for val >= 10 {
		val /= 10
		width++
	}
	return width
}

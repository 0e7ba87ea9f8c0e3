package cipher

// Direction selects whether Shift adds or subtracts the keystream value.
type Direction int

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	if d == Decode {
		return "decode"
	}
	return "encode"
}

const alphabetSize = 26

// Shift maps an uppercase letter and a keystream value to the paired letter.
// Encode and Decode are exact inverses for every letter and value.
func Shift(letter byte, k int, dir Direction) byte {
	p := int(letter - 'A')
	if dir == Decode {
		k = -k
	}
	out := (p + k) % alphabetSize
	if out < 0 {
		out += alphabetSize
	}
	return byte('A' + out)
}

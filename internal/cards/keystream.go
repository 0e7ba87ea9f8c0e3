package cards

// Next advances the working order and returns the next keystream value in
// 1..52. Draws that land on a joker are discarded and the whole step is
// repeated.
func (d *Deck) Next() int {
	for {
		d.MoveDown(FirstJoker, 1)
		d.MoveDown(SecondJoker, 2)
		d.TripleCut(FirstJoker, SecondJoker)
		d.BottomCut()

		out := d.cards[d.cards[0].Value()]
		if !out.IsJoker() {
			return out.Value()
		}
	}
}

// Keystream restores the key order and returns the first n keystream values.
// The working order is left advanced past those n values.
func (d *Deck) Keystream(n int) []int {
	d.Restore()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.Next())
	}
	return out
}

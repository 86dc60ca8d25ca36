package engine

// SeqSource replays a fixed float sequence, wrapping around at the end. It
// exists for tests and scripted replays where every draw must be chosen by
// hand.
type SeqSource struct {
	Values []float64
	pos    int
}

// NewSeqSource returns a SeqSource over the given values.
func NewSeqSource(values ...float64) *SeqSource {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &SeqSource{Values: values}
}

// Next01 returns the next value in the sequence.
func (s *SeqSource) Next01() float64 {
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

package cpu

const (
	STACK_LIMIT = 16 // Conventional maximum stack depth, for hosts that want one.
)

// Stack of return addresses.
type Stack struct {
	Data  []uint16
	Limit int // Maximum depth, or 0 for no limit.
}

func (s *Stack) Push(value uint16) {
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return s.Limit > 0 && len(s.Data) >= s.Limit
}

// Depth is the number of saved return addresses.
func (s *Stack) Depth() int {
	return len(s.Data)
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}

package stream

// Surface 是有序、只追加的块列表。块只会通过 Clear 或移除占位块消失。
type Surface struct {
	blocks []Block
	nextID int
}

// NewSurface 创建空的 Surface，块 ID 从 1 开始。
func NewSurface() *Surface {
	return &Surface{nextID: 1}
}

// Lookback 返回合并决策所需的一格回看状态，每次调用都重新计算。
func (s *Surface) Lookback() Lookback {
	look := Lookback{NextID: s.next()}
	if n := len(s.blocks); n > 0 {
		last := s.blocks[n-1].clone()
		look.Last = &last
	}
	return look
}

// Apply 执行一次更新，目标块不存在时返回 false。
func (s *Surface) Apply(u Update) bool {
	switch u.Op {
	case OpAppend:
		if u.Block == nil {
			return false
		}
		b := u.Block.clone()
		if b.ID == 0 {
			b.ID = s.next()
		}
		if b.ID >= s.nextID {
			s.nextID = b.ID + 1
		}
		s.blocks = append(s.blocks, b)
		return true
	case OpClear:
		s.Clear()
		return true
	case OpRemove:
		i := s.index(u.BlockID)
		if i < 0 {
			return false
		}
		s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
		return true
	default:
		i := s.index(u.BlockID)
		if i < 0 {
			return false
		}
		s.blocks[i].apply(u)
		return true
	}
}

// Clear 清空所有块；ID 继续递增，旧 ID 不会被复用。
func (s *Surface) Clear() {
	s.blocks = nil
}

// Len 返回块数量。
func (s *Surface) Len() int {
	return len(s.blocks)
}

// Blocks 返回全部块的副本。
func (s *Surface) Blocks() []Block {
	out := make([]Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, b.clone())
	}
	return out
}

// Block 按 ID 查找块。
func (s *Surface) Block(id int) (Block, bool) {
	i := s.index(id)
	if i < 0 {
		return Block{}, false
	}
	return s.blocks[i].clone(), true
}

func (s *Surface) next() int {
	if s.nextID < 1 {
		s.nextID = 1
	}
	return s.nextID
}

func (s *Surface) index(id int) int {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if s.blocks[i].ID == id {
			return i
		}
	}
	return -1
}

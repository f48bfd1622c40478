package availability

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	PutBlockFunc         func(b *TimeBlock) error
	GetBlockFunc         func(blockID string) (*TimeBlock, error)
	DeleteBlockFunc      func(blockID string) error
	GetPlayerBlocksFunc  func(playerID string) ([]*TimeBlock, error)
	GetBlocksInRangeFunc func(playerID, dateFrom, dateTo string) ([]*TimeBlock, error)
	GetAllBlocksFunc     func() ([]*TimeBlock, error)
	SeedBlocksFunc       func(blocks []*TimeBlock) error
	ClearFunc            func()

	// Call records
	PutBlockCalls    []*TimeBlock
	DeleteBlockCalls []string
	ClearCalls       int
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) PutBlock(b *TimeBlock) error {
	m.mu.Lock()
	m.PutBlockCalls = append(m.PutBlockCalls, b)
	m.mu.Unlock()
	if m.PutBlockFunc != nil {
		return m.PutBlockFunc(b)
	}
	return nil
}

func (m *MockStore) GetBlock(blockID string) (*TimeBlock, error) {
	if m.GetBlockFunc != nil {
		return m.GetBlockFunc(blockID)
	}
	return nil, nil
}

func (m *MockStore) DeleteBlock(blockID string) error {
	m.mu.Lock()
	m.DeleteBlockCalls = append(m.DeleteBlockCalls, blockID)
	m.mu.Unlock()
	if m.DeleteBlockFunc != nil {
		return m.DeleteBlockFunc(blockID)
	}
	return nil
}

func (m *MockStore) GetPlayerBlocks(playerID string) ([]*TimeBlock, error) {
	if m.GetPlayerBlocksFunc != nil {
		return m.GetPlayerBlocksFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) GetBlocksInRange(playerID, dateFrom, dateTo string) ([]*TimeBlock, error) {
	if m.GetBlocksInRangeFunc != nil {
		return m.GetBlocksInRangeFunc(playerID, dateFrom, dateTo)
	}
	return nil, nil
}

func (m *MockStore) GetAllBlocks() ([]*TimeBlock, error) {
	if m.GetAllBlocksFunc != nil {
		return m.GetAllBlocksFunc()
	}
	return nil, nil
}

func (m *MockStore) SeedBlocks(blocks []*TimeBlock) error {
	if m.SeedBlocksFunc != nil {
		return m.SeedBlocksFunc(blocks)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

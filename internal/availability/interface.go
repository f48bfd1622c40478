package availability

// Store defines the interface for persisting time blocks. All schedule logic
// lives in the Manager; the store only answers id and player/date queries.
type Store interface {
	PutBlock(b *TimeBlock) error
	GetBlock(blockID string) (*TimeBlock, error)
	DeleteBlock(blockID string) error
	GetPlayerBlocks(playerID string) ([]*TimeBlock, error)
	GetBlocksInRange(playerID, dateFrom, dateTo string) ([]*TimeBlock, error)
	GetAllBlocks() ([]*TimeBlock, error)
	SeedBlocks(blocks []*TimeBlock) error
	Clear()
}

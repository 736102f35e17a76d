package rag

// StoreType 向量存储类型
type StoreType string

const (
	// StoreTypeMemory 内存存储
	StoreTypeMemory StoreType = "memory"
	// StoreTypeSQLite SQLite 持久化存储
	StoreTypeSQLite StoreType = "sqlite"
	// StoreTypeQdrant Qdrant 远程存储
	StoreTypeQdrant StoreType = "qdrant"
)

// StoreConfig 向量存储配置
type StoreConfig struct {
	// Type 存储类型
	Type StoreType `koanf:"type"`
	// SQLitePath SQLite 数据库路径
	SQLitePath string `koanf:"sqlite_path"`
	// QdrantURL Qdrant 端点
	QdrantURL string `koanf:"qdrant_url"`
	// QdrantAPIKey Qdrant API 密钥
	QdrantAPIKey string `koanf:"qdrant_api_key"`
	// Collection 集合名称
	Collection string `koanf:"collection"`
	// VectorDimensions 向量维度
	VectorDimensions int `koanf:"vector_dimensions"`
}

// DefaultStoreConfig 返回默认存储配置
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Type:             StoreTypeMemory,
		SQLitePath:       "tokengate.db",
		Collection:       "documents",
		VectorDimensions: 1536,
	}
}

// NewVectorStore 根据配置创建向量存储
func NewVectorStore(config StoreConfig) (VectorStore, error) {
	switch config.Type {
	case StoreTypeSQLite:
		return NewSQLiteVectorStore(config.SQLitePath)
	case StoreTypeQdrant:
		return NewQdrantVectorStore(QdrantConfig{
			URL:        config.QdrantURL,
			APIKey:     config.QdrantAPIKey,
			Collection: config.Collection,
			Dimensions: config.VectorDimensions,
		})
	case StoreTypeMemory:
		fallthrough
	default:
		return NewInMemoryVectorStore(), nil
	}
}

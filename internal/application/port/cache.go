package port

import "context"

// Cache - хранилище готовых выборок журнала событий (Port)
// Значения сериализуются в JSON; ключи версионируются по EventLogVersion.
type Cache interface {
	// Get читает значение в dest; промах кеша возвращается как ошибка реализации
	Get(ctx context.Context, key string, dest interface{}) error

	// Set сохраняет значение с TTL реализации
	Set(ctx context.Context, key string, value interface{}) error

	Delete(ctx context.Context, key string) error

	// DeletePattern удаляет ключи по glob-шаблону (устаревшие версии журнала)
	DeletePattern(ctx context.Context, pattern string) error

	Close() error
}

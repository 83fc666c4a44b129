// Package praise — store.go определяет порт хранилища книги хлопов.
// Состояние целиком читается перед каждой операцией и целиком
// перезаписывается после каждой мутации: объём данных — чат на пару
// десятков человек, простота здесь важнее экономии на вводе-выводе.
package praise

import "context"

// Store — порт хранилища книги хлопов.
//
// Load возвращает пустой State, если данных ещё нет, и ошибку,
// обёрнутую в common.ErrCorruptStorage, если данные есть, но не читаются.
// Save заменяет сохранённое состояние атомарно: параллельный читатель
// видит либо старую версию целиком, либо новую целиком.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

package menu

import "context"

// Repo provides menu items from the backing catalog store.
type Repo interface {
	ListAvailable(ctx context.Context) ([]*MenuItem, error)
}

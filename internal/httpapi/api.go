package httpapi

import "github.com/Sheyworld98/pln-frontend/internal/labeling"

type API struct {
	store *labeling.Store
}

func NewAPI(store *labeling.Store) *API {
	if store == nil {
		store = labeling.NewStore()
	}
	return &API{store: store}
}

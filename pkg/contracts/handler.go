package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP handler group mounted by pkg/app.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

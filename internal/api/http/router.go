package http

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/owenjoycecoughlan/Offsets/internal/guard"
	iterhttp "github.com/owenjoycecoughlan/Offsets/internal/iterations/http"
	iterservice "github.com/owenjoycecoughlan/Offsets/internal/iterations/service"
	nodehttp "github.com/owenjoycecoughlan/Offsets/internal/nodes/http"
	nodeservice "github.com/owenjoycecoughlan/Offsets/internal/nodes/service"
	"github.com/owenjoycecoughlan/Offsets/internal/settings"
)

type Deps struct {
	DB          *sql.DB
	ServiceName string
	Version     string
	AdminAPIKey string

	Nodes      *nodeservice.NodeService
	Moderation *nodeservice.ModerationService
	Lifecycle  *nodeservice.LifecycleService
	Iterations *iterservice.IterationService
	Settings   settings.Store
	Guard      *guard.SubmissionGuard
}

// NewRouter assembles the gin engine: health endpoints, the public API,
// and the key-guarded admin surface.
func NewRouter(dep Deps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	NewHealthHandler(dep.ServiceName, dep.Version, dep.DB).RegisterRoutes(r)

	api := r.Group("/api/v1")

	nodeHandler := nodehttp.NewHandler(dep.Nodes, dep.Moderation, dep.Lifecycle, dep.Iterations, dep.Guard)
	nodeHandler.Register(api)

	iterHandler := iterhttp.NewHandler(dep.Iterations)
	iterHandler.Register(api)

	settingsHandler := settings.NewHandler(dep.Settings)
	settingsHandler.Register(api)

	admin := api.Group("/admin")
	admin.Use(AdminKey(dep.AdminAPIKey))
	nodeHandler.RegisterAdmin(admin)
	iterHandler.RegisterAdmin(admin)
	settingsHandler.RegisterAdmin(admin)

	return r
}

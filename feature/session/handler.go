package session

import (
	"errors"

	"camkit/core/logger"
	"camkit/feature/preset"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles the UI-facing HTTP operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the session, preset and editor routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	presets := app.Group("/presets")
	presets.Get("/", h.HandleList)
	presets.Post("/reload", h.HandleReload)
	presets.Delete("/:key", h.HandleDelete)

	sess := app.Group("/session")
	sess.Post("/mount", h.HandleMount)
	sess.Post("/unmount", h.HandleUnmount)
	sess.Get("/status", h.HandleStatus)
	sess.Post("/enabled", h.HandleEnabled)
	sess.Post("/debug", h.HandleDebug)
	sess.Post("/frame", h.HandleFrame)

	// The variant travels as a query parameter so the action segment stays
	// unambiguous.
	ed := app.Group("/editor")
	ed.Get("/:name", h.HandleEditorOpen)
	ed.Post("/:name", h.HandleEditorEdit)
	ed.Post("/:name/apply", h.HandleEditorApply)
	ed.Post("/:name/save", h.HandleEditorSave)
	ed.Post("/:name/rename", h.HandleEditorRename)
	ed.Delete("/:name", h.HandleEditorClose)
}

// HandleList returns every registered preset with usage counters.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

// HandleReload force-reloads the preset hierarchy.
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	stats, err := h.service.ReloadAll()
	if err != nil {
		l.Error("reload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(), "stats": stats,
		})
	}
	l.Info("presets reloaded", zap.Int("defaults", stats.Defaults), zap.Int("presets", stats.Presets))
	return c.JSON(stats)
}

// HandleDelete removes a preset file and registry entry.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := h.service.DeletePreset(key); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": key})
}

type mountRequest struct {
	Name     string `json:"name"`
	Variant  string `json:"variant"`
	RecordID string `json:"record_id"`
}

// HandleMount activates a vehicle context.
func (h *Handler) HandleMount(c *fiber.Ctx) error {
	var req mountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Mount(req.Name, req.Variant, req.RecordID); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrNoContext) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.service.CurrentStatus())
}

// HandleUnmount drops the vehicle context and restores touched profiles.
func (h *Handler) HandleUnmount(c *fiber.Ctx) error {
	h.service.Unmount()
	return c.JSON(h.service.CurrentStatus())
}

// HandleStatus reports the session state.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.CurrentStatus())
}

// HandleEnabled toggles the whole system.
func (h *Handler) HandleEnabled(c *fiber.Ctx) error {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.SetEnabled(req.Enabled); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, preset.ErrDisabled) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.service.CurrentStatus())
}

// HandleDebug adjusts the log level at runtime.
func (h *Handler) HandleDebug(c *fiber.Ctx) error {
	var req struct {
		Level string `json:"level"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.SetDebugLevel(req.Level); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"level": req.Level})
}

// HandleFrame advances the frame clock by the posted elapsed seconds.
func (h *Handler) HandleFrame(c *fiber.Ctx) error {
	var req struct {
		Elapsed float64 `json:"elapsed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	h.service.Frame(req.Elapsed)
	return c.SendStatus(fiber.StatusNoContent)
}

// editorTarget resolves the bundle coordinates of an editor route. The
// record defaults to the mounted vehicle when the query does not name one.
func (h *Handler) editorTarget(c *fiber.Ctx) (name, variant, recordID string) {
	name = c.Params("name")
	variant = c.Query("variant")
	recordID = c.Query("record")
	if recordID == "" {
		recordID, _ = h.service.MountedRecord()
	}
	return name, variant, recordID
}

// HandleEditorOpen opens or reads the editor bundle for an entity.
func (h *Handler) HandleEditorOpen(c *fiber.Ctx) error {
	name, variant, recordID := h.editorTarget(c)
	b, err := h.service.Editor().Open(name, variant, recordID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(b)
}

// HandleEditorEdit mutates one numeric field on the live slot.
func (h *Handler) HandleEditorEdit(c *fiber.Ctx) error {
	var req struct {
		Tier  string  `json:"tier"`
		Field string  `json:"field"`
		Value float64 `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	name, variant, _ := h.editorTarget(c)
	if err := h.service.Editor().EditField(name, variant, req.Tier, req.Field, req.Value); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleEditorApply pushes the live slot into the store.
func (h *Handler) HandleEditorApply(c *fiber.Ctx) error {
	name, variant, _ := h.editorTarget(c)
	if err := h.service.Editor().ApplyAction(name, variant); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	b, _ := h.service.Editor().Get(name, variant)
	return c.JSON(b)
}

// HandleEditorSave persists the live slot to disk.
func (h *Handler) HandleEditorSave(c *fiber.Ctx) error {
	name, variant, _ := h.editorTarget(c)
	if err := h.service.Editor().SaveAction(name, variant); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	b, _ := h.service.Editor().Get(name, variant)
	return c.JSON(b)
}

// HandleEditorRename changes the target file name of the bundle.
func (h *Handler) HandleEditorRename(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}
	name, variant, _ := h.editorTarget(c)
	if err := h.service.Editor().Rename(name, variant, req.Name); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleEditorClose closes the editor view, evicting clean bundles.
func (h *Handler) HandleEditorClose(c *fiber.Ctx) error {
	name, variant, _ := h.editorTarget(c)
	evicted := h.service.Editor().Close(name, variant)
	return c.JSON(fiber.Map{"evicted": evicted})
}

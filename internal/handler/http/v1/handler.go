package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/safeguard/sos_alert_system/internal/config"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/safeguard/sos_alert_system/internal/relay"
	"github.com/safeguard/sos_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Pinger проверяет живость внешней зависимости для health-check
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	guardianService service.GuardianService
	sosService      service.SOSService
	relay           *relay.Relay
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
	dbPinger        Pinger
	redisPinger     Pinger
}

func NewHandler(guardianService service.GuardianService, sosService service.SOSService, rel *relay.Relay, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		guardianService: guardianService,
		sosService:      sosService,
		relay:           rel,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// WithPingers подключает проверки живости хранилищ к health-check
func (h *Handler) WithPingers(db, redis Pinger) *Handler {
	h.dbPinger = db
	h.redisPinger = redis
	return h
}

// @Summary Trigger an SOS alert
// @Description Trigger an SOS alert for the authenticated user. Notifies all configured emergency contacts.
// @Tags SOS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body TriggerSOSRequest true "SOS trigger request"
// @Success 200 {object} TriggerSOSResponse
// @Failure 400 {object} map[string]string "Invalid request body or no emergency contacts"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/trigger [post]
func (h *Handler) triggerSOS(c *gin.Context) {
	var input TriggerSOSRequest
	log := h.logger.WithField("method", "triggerSOS")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notified, err := h.sosService.Trigger(c.Request.Context(), user, DTOToAlertPayload(input), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoGuardians):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no emergency contacts configured"})
		case errors.Is(err, models.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many SOS triggers, try again later"})
		default:
			log.WithError(err).Error("Failed to trigger SOS in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, TriggerSOSResponse{Success: true, ContactsNotified: notified})
}

// @Summary Resolve the active SOS session
// @Description Mark the authenticated user as safe. Clears the alert state and closes live location streams.
// @Tags SOS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResolveSOSResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/resolve [post]
func (h *Handler) resolveSOS(c *gin.Context) {
	log := h.logger.WithField("method", "resolveSOS")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := h.sosService.Resolve(c.Request.Context(), user, c.ClientIP()); err != nil {
		log.WithError(err).Error("Failed to resolve SOS in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ResolveSOSResponse{Success: true, ActiveSOS: false})
}

// @Summary Get SOS session status
// @Description Get the current SOS session state of the authenticated user.
// @Tags SOS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SOSStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /sos/status [get]
func (h *Handler) sosStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	c.JSON(http.StatusOK, SOSStatusResponse{
		ActiveSOS: user.ActiveSOS,
		State:     string(h.sosService.State(user.ID)),
	})
}

// @Summary List emergency contacts
// @Description Get the emergency contacts of the authenticated user, ordered by priority.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} GuardianResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user/contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	log := h.logger.WithField("method", "listContacts")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	guardians, err := h.guardianService.ListGuardians(c.Request.Context(), user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to list contacts from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToGuardianResponses(guardians))
}

// @Summary Add an emergency contact
// @Description Add an emergency contact for the authenticated user. At most 5 contacts per user.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contact body AddGuardianRequest true "Contact creation request"
// @Success 201 {object} GuardianResponse
// @Failure 400 {object} map[string]string "Invalid request body or contact limit reached"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user/contacts [post]
func (h *Handler) addContact(c *gin.Context) {
	var input AddGuardianRequest
	log := h.logger.WithField("method", "addContact")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToGuardianModel(input)
	if err := h.guardianService.AddGuardian(c.Request.Context(), user.ID, model); err != nil {
		if errors.Is(err, models.ErrCapacityExceeded) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "emergency contact limit reached"})
			return
		}
		log.WithError(err).Error("Failed to add contact in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, ModelToGuardianResponse(model))
}

// @Summary Remove an emergency contact
// @Description Remove an emergency contact by its ID. Removing an unknown ID succeeds without changes.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid contact ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user/contacts/{id} [delete]
func (h *Handler) deleteContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	log := h.logger.WithField("method", "deleteContact").WithField("id", id)

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := h.guardianService.RemoveGuardian(c.Request.Context(), user.ID, id); err != nil {
		log.WithError(err).Error("Failed to remove contact in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusOK)
}

// @Summary Get application health status
// @Description Get health status of the application and its storage backends
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Failure 503 {object} map[string]string "A storage backend is unreachable"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	status := gin.H{"status": "ok"}
	code := http.StatusOK

	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.dbPinger != nil {
		if err := h.dbPinger.Ping(pingCtx); err != nil {
			h.logger.WithError(err).Error("Health check: postgres unreachable")
			status["postgres"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			status["postgres"] = "ok"
		}
	}
	if h.redisPinger != nil {
		if err := h.redisPinger.Ping(pingCtx); err != nil {
			h.logger.WithError(err).Error("Health check: redis unreachable")
			status["redis"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			status["redis"] = "ok"
		}
	}

	if code != http.StatusOK {
		status["status"] = "degraded"
	}
	c.JSON(code, status)
}

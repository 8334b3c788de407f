package endpoint

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clinicbook/clinic-server/config"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
)

// The triage endpoint is a thin shim in front of the symptom-triage
// collaborator. The conversational model behind it is external; this layer
// owns only the per-session conversation store and a keyword fallback that
// suggests a specialization from the latest message.

var (
	triageStore     util.TriageSessionStore
	triageStoreOnce sync.Once
)

// SetTriageStore overrides the session store; tests install an in-memory one.
func SetTriageStore(store util.TriageSessionStore) {
	triageStore = store
}

func getTriageStore() util.TriageSessionStore {
	triageStoreOnce.Do(func() {
		if triageStore == nil {
			triageStore = util.NewRedisTriageStore(config.GetRedisClient())
		}
	})
	return triageStore
}

// specializationKeywords maps symptom keywords to suggested specialists.
var specializationKeywords = []struct {
	keywords       []string
	specialization string
}{
	{[]string{"chest", "heart", "palpitation"}, "Cardiology"},
	{[]string{"skin", "rash", "itch"}, "Dermatology"},
	{[]string{"headache", "dizzy", "numb"}, "Neurology"},
	{[]string{"bone", "joint", "fracture"}, "Orthopedics"},
	{[]string{"cough", "breath", "wheez"}, "Pulmonology"},
	{[]string{"stomach", "nausea", "vomit"}, "Gastroenterology"},
}

// SuggestSpecialization maps a free-text symptom description to a
// specialization, defaulting to general medicine.
func SuggestSpecialization(message string) string {
	lower := strings.ToLower(message)
	for _, entry := range specializationKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.specialization
			}
		}
	}
	return "General Medicine"
}

// TriageMessageRequest carries one patient message.
type TriageMessageRequest struct {
	Message string `json:"message" example:"I have chest pain and shortness of breath"`
}

// PostTriageMessage godoc
// @Summary      Send a triage message
// @Description  Appends the message to the session's conversation and suggests a specialization
// @Tags         Triage
// @Accept       json
// @Produce      json
// @Param        sessionId path string true "Triage session ID"
// @Param        message body TriageMessageRequest true "Patient message"
// @Success      200 {object} map[string]interface{} "Reply with suggested specialization"
// @Failure      400 {object} util.APIError "Validation failed"
// @Failure      500 {object} util.APIError "Session store error"
// @Router       /triage/{sessionId} [post]
func PostTriageMessage(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		util.CallValidationError(c, []util.FieldError{{Path: "sessionId", Message: "sessionId is required"}})
		return
	}
	var req TriageMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		util.CallValidationError(c, []util.FieldError{{Path: "message", Message: "message is required"}})
		return
	}

	store := getTriageStore()
	ctx := c.Request.Context()
	suggestion := SuggestSpecialization(req.Message)
	reply := fmt.Sprintf("Based on your symptoms, consider seeing a %s specialist.", suggestion)

	err := store.Append(ctx, sessionID, util.TriageMessage{
		Role: "patient", Content: req.Message, SentAt: time.Now(),
	})
	if err == nil {
		err = store.Append(ctx, sessionID, util.TriageMessage{
			Role: "assistant", Content: reply, SentAt: time.Now(),
		})
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store triage message", Err: err})
		return
	}

	util.CallSuccessOK(c, gin.H{
		"sessionId":               sessionID,
		"reply":                   reply,
		"suggestedSpecialization": suggestion,
	})
}

// GetTriageSession godoc
// @Summary      Fetch a triage conversation
// @Tags         Triage
// @Produce      json
// @Param        sessionId path string true "Triage session ID"
// @Success      200 {object} map[string]interface{} "Conversation"
// @Failure      500 {object} util.APIError "Session store error"
// @Router       /triage/{sessionId} [get]
func GetTriageSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		util.CallValidationError(c, []util.FieldError{{Path: "sessionId", Message: "sessionId is required"}})
		return
	}
	messages, err := getTriageStore().Get(c.Request.Context(), sessionID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load triage session", Err: err})
		return
	}
	if messages == nil {
		messages = []util.TriageMessage{}
	}
	util.CallSuccessOK(c, gin.H{"sessionId": sessionID, "messages": messages})
}

package endpoint

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/clinicbook/clinic-server/middleware"
	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// pageQuery is the common list-endpoint query surface.
type pageQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func parsePageQuery(c *gin.Context) pageQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return pageQuery{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
}

func (q pageQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination mirrors the list response contract.
type Pagination struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"10"`
	Total      int64 `json:"total" example:"42"`
	TotalPages int   `json:"totalPages" example:"5"`
}

// pageResponse assembles the {items, pagination} list body.
func pageResponse(items interface{}, q pageQuery, total int64) gin.H {
	totalPages := int(math.Ceil(float64(total) / float64(q.Limit)))
	return gin.H{
		"items": items,
		"pagination": Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// getDBOrAbort fetches the request DB handle, responding 500 when absent.
func getDBOrAbort(c *gin.Context) *gorm.DB {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
	}
	return db
}

// parseIDParam reads the :id path parameter as a uint.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid id parameter",
			Err: fmt.Errorf("id must be a positive integer"),
		})
		return 0, false
	}
	return uint(id), true
}

// ensureExists verifies a referenced row exists, returning a ReferenceError
// naming the offending request field when it does not.
func ensureExists(tx *gorm.DB, value interface{}, field string, id uint) error {
	var count int64
	if err := tx.Model(value).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &model.ReferenceError{Field: field, ID: id}
	}
	return nil
}

// respondMutationError maps model-layer errors onto the HTTP error contract.
func respondMutationError(c *gin.Context, err error, resource string) {
	var refErr *model.ReferenceError
	var futureErr *model.FutureAppointmentsError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: resource + " not found",
			Err: err,
		})
	case errors.As(err, &refErr):
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Referenced %s does not exist", refErr.Field),
			Err: refErr,
		})
	case errors.As(err, &futureErr):
		util.CallPreconditionError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Cannot delete: %d future non-canceled appointment(s) reference this ambulance", futureErr.Count),
			Err: futureErr,
		})
	case errors.Is(err, model.ErrEmailTaken):
		util.CallConflictError(c, util.APIErrorParams{
			Msg: "Email already exists",
			Err: err,
		})
	case errors.Is(err, model.ErrTransitionNotAllowed):
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Status transition not allowed",
			Err: err,
		})
	default:
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to mutate " + resource,
			Err: err,
		})
	}
}

// createOwnedUser inserts the owning User row for a profile, enforcing email
// uniqueness inside the caller's transaction.
func createOwnedUser(tx *gorm.DB, email, password, name string, role model.Role) (*model.User, error) {
	var count int64
	if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, model.ErrEmailTaken
	}
	user := model.User{
		Email:    email,
		Password: util.HashPassword(password),
		Name:     util.NormalizeName(name),
		Role:     role,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

package api

import (
	"errors"
	"net/http"
	"time"

	"examtrack/internal/auth"
	"examtrack/internal/config"
	"examtrack/internal/exams"
	"examtrack/internal/models"
	"examtrack/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler contains the web handlers
type Handler struct {
	cfg   *config.Config
	auth  *auth.Service
	exams *exams.Service
	log   logrus.FieldLogger

	// now is swapped out in tests to pin the listing date.
	now func() time.Time
}

// NewHandler creates a new web handler
func NewHandler(cfg *config.Config, authSvc *auth.Service, examSvc *exams.Service, log logrus.FieldLogger) *Handler {
	return &Handler{
		cfg:   cfg,
		auth:  authSvc,
		exams: examSvc,
		log:   log,
		now:   time.Now,
	}
}

// RegisterPage shows the registration form
func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register creates a new user account
func (h *Handler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := h.auth.Register(username, password)
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		c.String(http.StatusConflict, "Username already exists")
	case errors.Is(err, auth.ErrEmptyCredentials):
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": err.Error()})
	case err != nil:
		h.log.WithError(err).Error("registration failed")
		c.String(http.StatusInternalServerError, "something went wrong")
	default:
		c.Redirect(http.StatusSeeOther, "/login")
	}
}

// LoginPage shows the login form
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login checks the credentials and establishes the session. A failed login
// re-shows the form with a generic message: which field was wrong is not
// disclosed.
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	userID, err := h.auth.Authenticate(username, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Invalid username or password"})
		return
	}

	token, err := auth.NewSessionToken(userID, []byte(h.cfg.SessionSecret), h.cfg.SessionTTL)
	if err != nil {
		h.log.WithError(err).Error("failed to sign session token")
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.SetCookie(sessionCookie, token, int(h.cfg.SessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session. Safe to call without one.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// Index lists the caller's exams with computed status and days left
func (h *Handler) Index(c *gin.Context) {
	views, err := h.exams.List(currentUserID(c), h.now())
	if err != nil {
		h.log.WithError(err).Error("failed to list exams")
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Exams": views})
}

// AddExamPage shows a blank exam form
func (h *Handler) AddExamPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_exam.html", gin.H{"Form": exams.Input{}})
}

// AddExam creates an exam for the session owner
func (h *Handler) AddExam(c *gin.Context) {
	in := formInput(c)

	_, err := h.exams.Create(currentUserID(c), in)
	switch {
	case errors.Is(err, exams.ErrValidation):
		c.HTML(http.StatusBadRequest, "add_exam.html", gin.H{"Form": in, "Error": err.Error()})
	case err != nil:
		h.log.WithError(err).Error("failed to create exam")
		c.String(http.StatusInternalServerError, "something went wrong")
	default:
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// EditExamPage shows the populated exam form. An unknown id is a 404; an exam
// owned by someone else sends the caller back to the listing with no hint
// that the id exists.
func (h *Handler) EditExamPage(c *gin.Context) {
	exam, err := h.exams.GetForEdit(c.Param("id"), currentUserID(c))
	switch {
	case errors.Is(err, exams.ErrNotFound):
		c.String(http.StatusNotFound, "exam not found")
	case errors.Is(err, exams.ErrForbidden):
		c.Redirect(http.StatusFound, "/")
	case err != nil:
		h.log.WithError(err).Error("failed to load exam")
		c.String(http.StatusInternalServerError, "something went wrong")
	default:
		c.HTML(http.StatusOK, "edit_exam.html", gin.H{
			"ExamID": exam.ID,
			"Form":   inputFromExam(exam),
		})
	}
}

// EditExam overwrites all fields of the exam, under the same ownership rule
// as EditExamPage.
func (h *Handler) EditExam(c *gin.Context) {
	examID := c.Param("id")
	in := formInput(c)

	err := h.exams.Update(examID, currentUserID(c), in)
	switch {
	case errors.Is(err, exams.ErrValidation):
		c.HTML(http.StatusBadRequest, "edit_exam.html", gin.H{"ExamID": examID, "Form": in, "Error": err.Error()})
	case errors.Is(err, exams.ErrNotFound):
		c.String(http.StatusNotFound, "exam not found")
	case errors.Is(err, exams.ErrForbidden):
		c.Redirect(http.StatusFound, "/")
	case err != nil:
		h.log.WithError(err).Error("failed to update exam")
		c.String(http.StatusInternalServerError, "something went wrong")
	default:
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// DeleteExam deletes the exam when the caller owns it. Anything else is a
// no-op; either way the caller lands back on the listing.
func (h *Handler) DeleteExam(c *gin.Context) {
	if err := h.exams.Delete(c.Param("id"), currentUserID(c)); err != nil {
		h.log.WithError(err).Error("failed to delete exam")
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// formInput collects the exam form fields from the request.
func formInput(c *gin.Context) exams.Input {
	return exams.Input{
		ExamName: c.PostForm("exam_name"),
		ExamType: c.PostForm("exam_type"),
		ExamDate: c.PostForm("exam_date"),
		Deadline: c.PostForm("deadline"),
		Notes:    c.PostForm("notes"),
		Link:     c.PostForm("link"),
	}
}

// inputFromExam renders a persisted exam back into form-field strings.
func inputFromExam(exam *models.Exam) exams.Input {
	return exams.Input{
		ExamName: exam.ExamName,
		ExamType: exam.ExamType,
		ExamDate: exam.ExamDate.Format("2006-01-02"),
		Deadline: exam.Deadline.Format("2006-01-02"),
		Notes:    exam.Notes,
		Link:     exam.Link,
	}
}

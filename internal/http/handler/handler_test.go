package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stickynote/internal/apperr"
	"stickynote/internal/auth"
	"stickynote/internal/http/middleware"
	"stickynote/internal/logging"
	"stickynote/internal/model"
	"stickynote/internal/service"
	serviceMocks "stickynote/internal/service/mocks"
	"stickynote/internal/storage"
	storeMocks "stickynote/internal/storage/mocks"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Discard())})
	app.Use(middleware.RequestID())
	return app
}

func decode(t *testing.T, r io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(r).Decode(&env))
	return env
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name, content string
}

func multipartRequest(method, target string, fields map[string]string, files ...formFile) *http.Request {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for _, f := range files {
		part, _ := w.CreateFormFile(f.field, f.name)
		_, _ = part.Write([]byte(f.content))
	}
	_ = w.Close()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newApp()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		env := decode(t, resp.Body)
		assert.False(t, env.Success)
		assert.Equal(t, "SERVICE_UNAVAILABLE", env.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := newApp()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorHandler_Kinds(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{apperr.Validation("email: must be a valid email address."), 400, "VALIDATION_ERROR", "email: must be a valid email address."},
		{service.ErrEmailTaken, 400, "CONFLICT", "email already exists"},
		{service.ErrNoteFull, 400, "CAPACITY_EXCEEDED", "maximum number of files reached"},
		{service.ErrFileNotFound, 400, "BAD_REQUEST", "file not found"},
		{service.ErrNoteNotFound, 404, "NOT_FOUND", "note not found"},
		{service.ErrIncorrectPassword, 401, "UNAUTHORIZED", "incorrect password"},
		{service.ErrNoteModified, 409, "VERSION_CONFLICT", "note was modified concurrently, please retry"},
		{apperr.Wrap(apperr.KindUnavailable, "failed to send OTP email", errors.New("smtp")), 503, "SERVICE_UNAVAILABLE", "failed to send OTP email"},
		{fmt.Errorf("pq: secret detail"), 500, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			app := newApp()
			app.Get("/x", func(*fiber.Ctx) error { return tt.err })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			env := decode(t, resp.Body)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.NotEmpty(t, env.RequestID)
		})
	}
}

func TestCreateUser(t *testing.T) {
	svc := new(serviceMocks.MockUserService)
	app := newApp()
	app.Post("/user/create", CreateUser(svc))

	in := service.RegisterUserInput{Name: "Ana", Phone: "1", Email: "ana@example.com", Password: "pw"}
	svc.On("Register", mock.Anything, in).Return(&model.User{ID: "u-1", Email: "ana@example.com", PasswordHash: "hash"}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/user/create", in))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "hash")
	assert.Contains(t, string(raw), `"success":true`)
	svc.AssertExpectations(t)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/user/create", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginUser(t *testing.T) {
	svc := new(serviceMocks.MockUserService)
	app := newApp()
	app.Post("/user/login", LoginUser(svc))

	svc.On("Login", mock.Anything, "ana@example.com", "pw").Return("tok", nil).Once()
	svc.On("Login", mock.Anything, "ana@example.com", "bad").Return("", service.ErrIncorrectPassword).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/user/login", loginRequest{Email: "ana@example.com", Password: "pw"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	env := decode(t, resp.Body)
	assert.Equal(t, map[string]any{"token": "tok"}, env.Data)

	resp, _ = app.Test(jsonRequest(http.MethodPost, "/user/login", loginRequest{Email: "ana@example.com", Password: "bad"}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateUser_Multipart(t *testing.T) {
	svc := new(serviceMocks.MockUserService)
	app := newApp()
	app.Put("/user/update/:id", UpdateUser(svc))
	id := uuid.NewString()

	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(in service.ProfileInput) bool {
		return in.Name != nil && *in.Name == "Ann" && in.Email == nil && in.Phone == nil
	}), mock.MatchedBy(func(f *service.FileUpload) bool {
		if f == nil || f.Filename != "me.png" {
			return false
		}
		b, _ := io.ReadAll(f.Reader)
		return string(b) == "png-bytes"
	})).Return(&model.User{ID: id, Name: "Ann"}, nil).Once()

	req := multipartRequest(http.MethodPut, "/user/update/"+id,
		map[string]string{"name": "Ann"},
		formFile{field: "profileImage", name: "me.png", content: "png-bytes"})
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestGetUser_InvalidID(t *testing.T) {
	app := newApp()
	app.Get("/user/get/:id", GetUser(new(serviceMocks.MockUserService)))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/user/get/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decode(t, resp.Body).Code)
}

func TestForgetPassword_MailFailure(t *testing.T) {
	svc := new(serviceMocks.MockAdminService)
	app := newApp()
	app.Post("/admin/forgetpassword", ForgetPassword(svc))
	svc.On("RequestReset", mock.Anything, "root@example.com").
		Return(apperr.Wrap(apperr.KindUnavailable, "failed to send OTP email", errors.New("dial tcp"))).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/admin/forgetpassword", resetRequest{Email: "root@example.com"}))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	env := decode(t, resp.Body)
	assert.Equal(t, "failed to send OTP email", env.Message)
}

func TestVerifyOTP(t *testing.T) {
	svc := new(serviceMocks.MockAdminService)
	app := newApp()
	app.Post("/admin/otpverification", VerifyOTP(svc))
	svc.On("VerifyOTP", mock.Anything, "0042").Return(nil).Once()
	svc.On("VerifyOTP", mock.Anything, "1111").Return(service.ErrOTPExpired).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/admin/otpverification", otpRequest{OTP: "0042"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(jsonRequest(http.MethodPost, "/admin/otpverification", otpRequest{OTP: "1111"}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "OTP has expired", decode(t, resp.Body).Message)
}

func TestAddAttachments(t *testing.T) {
	id := uuid.NewString()

	t.Run("passes files in order", func(t *testing.T) {
		svc := new(serviceMocks.MockAttachmentService)
		app := newApp()
		app.Put("/notes/addAttachment/:id", AddAttachments(svc, 10))
		svc.On("Add", mock.Anything, id, mock.MatchedBy(func(ups []service.FileUpload) bool {
			return len(ups) == 2 && ups[0].Filename == "a.png" && ups[1].Filename == "b.png"
		})).Return(&model.Note{ID: id, Files: []model.Attachment{{Index: 0, URL: "images/x.png"}, {Index: 1, URL: "images/y.png"}}}, nil).Once()

		req := multipartRequest(http.MethodPut, "/notes/addAttachment/"+id, nil,
			formFile{"files", "a.png", "a"}, formFile{"files", "b.png", "b"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("too many files in one request", func(t *testing.T) {
		svc := new(serviceMocks.MockAttachmentService)
		app := newApp()
		app.Put("/notes/addAttachment/:id", AddAttachments(svc, 2))

		req := multipartRequest(http.MethodPut, "/notes/addAttachment/"+id, nil,
			formFile{"files", "a", "a"}, formFile{"files", "b", "b"}, formFile{"files", "c", "c"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "CAPACITY_EXCEEDED", decode(t, resp.Body).Code)
		svc.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no files", func(t *testing.T) {
		app := newApp()
		app.Put("/notes/addAttachment/:id", AddAttachments(new(serviceMocks.MockAttachmentService), 10))

		resp, _ := app.Test(multipartRequest(http.MethodPut, "/notes/addAttachment/"+id, map[string]string{"x": "y"}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decode(t, resp.Body).Code)
	})

	t.Run("capacity from service", func(t *testing.T) {
		svc := new(serviceMocks.MockAttachmentService)
		app := newApp()
		app.Put("/notes/addAttachment/:id", AddAttachments(svc, 10))
		svc.On("Add", mock.Anything, id, mock.Anything).
			Return(nil, apperr.Capacity("maximum number of files reached, only 1 more files can be added")).Once()

		resp, _ := app.Test(multipartRequest(http.MethodPut, "/notes/addAttachment/"+id, nil,
			formFile{"files", "a", "a"}, formFile{"files", "b", "b"}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "maximum number of files reached, only 1 more files can be added", decode(t, resp.Body).Message)
	})
}

func TestRemoveAttachment(t *testing.T) {
	svc := new(serviceMocks.MockAttachmentService)
	app := newApp()
	app.Put("/notes/removeAttachment/:id/:index", RemoveAttachment(svc))
	id := uuid.NewString()

	svc.On("Remove", mock.Anything, id, 5).Return(nil, service.ErrFileNotFound).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodPut, "/notes/removeAttachment/"+id+"/5", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "file not found", decode(t, resp.Body).Message)

	resp, _ = app.Test(httptest.NewRequest(http.MethodPut, "/notes/removeAttachment/"+id+"/x", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INDEX", decode(t, resp.Body).Code)
	svc.AssertExpectations(t)
}

func TestSearchNotes_UnescapesQuery(t *testing.T) {
	svc := new(serviceMocks.MockNoteService)
	app := newApp()
	app.Get("/notes/search/:userId/:query", SearchNotes(svc))
	userID := uuid.NewString()
	svc.On("Search", mock.Anything, userID, "shopping list").Return([]model.Note{}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notes/search/"+userID+"/shopping%20list", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestFilterNotesByDate(t *testing.T) {
	svc := new(serviceMocks.MockNoteService)
	app := newApp()
	app.Get("/notes/filterByDate/:userId", FilterNotesByDate(svc))
	userID := uuid.NewString()
	svc.On("FilterByDate", mock.Anything, userID, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)).Return([]model.Note{}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notes/filterByDate/"+userID+"?date=2026-02-28", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/notes/filterByDate/"+userID+"?date=28/02/2026", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestUpdateNote_VersionConflict(t *testing.T) {
	svc := new(serviceMocks.MockNoteService)
	app := newApp()
	app.Put("/notes/update/:id", UpdateNote(svc))
	id := uuid.NewString()
	label := uuid.NewString()
	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(u model.NoteUpdate) bool {
		return u.LabelID != nil && *u.LabelID == label && u.Title == nil
	})).Return(nil, service.ErrNoteModified).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPut, "/notes/update/"+id, map[string]string{"label": label}))

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestLabelHandlers(t *testing.T) {
	svc := new(serviceMocks.MockLabelService)
	app := newApp()
	app.Post("/labels/create", CreateLabel(svc))
	app.Get("/labels/getall", ListLabels(svc))
	app.Delete("/labels/delete/:id", DeleteLabel(svc))
	id := uuid.NewString()

	svc.On("Create", mock.Anything, service.CreateLabelInput{Name: "Work", Color: "#f00"}).Return(&model.Label{ID: id, Name: "Work"}, nil).Once()
	svc.On("List", mock.Anything).Return([]model.Label{{ID: id}}, nil).Once()
	svc.On("Delete", mock.Anything, id).Return(service.ErrLabelNotFound).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/labels/create", service.CreateLabelInput{Name: "Work", Color: "#f00"}))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/labels/getall", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/labels/delete/"+id, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestServeImage(t *testing.T) {
	store := new(storeMocks.MockStorage)
	app := newApp()
	app.Get("/images/:name", ServeImage(store))

	store.On("Get", mock.Anything, "images/a.png").
		Return(io.NopCloser(strings.NewReader("png")), storage.ObjectInfo{Key: "images/a.png", Size: 3, ContentType: "image/png"}, nil).Once()
	store.On("Get", mock.Anything, "images/missing.png").
		Return(nil, storage.ObjectInfo{}, storage.ErrNotFound).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/images/a.png", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "png", string(body))

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/images/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	store.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{UserSecret: []byte("u"), AdminSecret: []byte("a")})
	require.NoError(t, err)

	users := new(serviceMocks.MockUserService)
	admins := new(serviceMocks.MockAdminService)
	labels := new(serviceMocks.MockLabelService)
	app := newApp()
	RegisterRoutes(app, RouteConfig{
		Tokens: tokens,
		Store:  new(storeMocks.MockStorage),
		Services: Services{
			Users:       users,
			Admins:      admins,
			Notes:       new(serviceMocks.MockNoteService),
			Attachments: new(serviceMocks.MockAttachmentService),
			Labels:      labels,
		},
		MaxFilesPerUpload: 10,
	})

	userTok, _ := tokens.Issue(uuid.NewString(), auth.RoleUser)
	adminTok, _ := tokens.Issue(uuid.NewString(), auth.RoleAdmin)

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode(t, resp.Body).Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/healthz", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, resp.Body).Code)
	})

	t.Run("labels need a user token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/labels/getall", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		req := httptest.NewRequest(http.MethodGet, "/labels/getall", nil)
		req.Header.Set(auth.HeaderName, adminTok)
		resp, _ = app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		labels.On("List", mock.Anything).Return([]model.Label{}, nil).Once()
		req = httptest.NewRequest(http.MethodGet, "/labels/getall", nil)
		req.Header.Set(auth.HeaderName, userTok)
		resp, _ = app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("listing users needs an admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/getall", nil)
		req.Header.Set(auth.HeaderName, userTok)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		users.On("List", mock.Anything, 20, 0).Return(&service.UserListResult{Items: []model.User{}, Limit: 20}, nil).Once()
		req = httptest.NewRequest(http.MethodGet, "/user/getall", nil)
		req.Header.Set(auth.HeaderName, adminTok)
		resp, _ = app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("password change is open to the reset flow", func(t *testing.T) {
		in := service.ChangePasswordInput{Email: "root@example.com", NewPassword: "fresh", ConfirmPassword: "fresh"}
		admins.On("ChangePassword", mock.Anything, in).Return(nil).Once()

		body, _ := json.Marshal(in)
		req := httptest.NewRequest(http.MethodPut, "/admin/changepassword", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		admins.AssertExpectations(t)
	})

	t.Run("sequre echoes claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/sequre", nil)
		req.Header.Set(auth.HeaderName, adminTok)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		env := decode(t, resp.Body)
		assert.Equal(t, "Token verified", env.Message)
		assert.NotEmpty(t, env.Data.(map[string]any)["id"])
	})
}

func TestRegisterDocs(t *testing.T) {
	app := newApp()
	RegisterDocs(app, "notes.example.com", "https")

	hosts := make(chan string, 8)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
			req.Host = fmt.Sprintf("client-%d.local", i)
			req.Header.Set("X-Forwarded-Proto", "http")
			resp, err := app.Test(req)
			if err != nil {
				hosts <- "error: " + err.Error()
				return
			}
			defer resp.Body.Close()
			var doc struct {
				Host    string   `json:"host"`
				Schemes []string `json:"schemes"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
				hosts <- "error: " + err.Error()
				return
			}
			hosts <- doc.Host + " " + strings.Join(doc.Schemes, ",")
		}()
	}
	wg.Wait()
	close(hosts)

	for got := range hosts {
		assert.Equal(t, "notes.example.com https", got)
	}
}

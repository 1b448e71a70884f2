package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/auth"
	authPostgres "github.com/frahmantamala/courier-payroll/internal/auth/postgres"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	directoryPostgres "github.com/frahmantamala/courier-payroll/internal/directory/postgres"
	"github.com/frahmantamala/courier-payroll/internal/transport"
	"github.com/frahmantamala/courier-payroll/internal/user"
	userPostgres "github.com/frahmantamala/courier-payroll/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		slogger *slog.Logger
		dir     *directory.Service
		service *user.Service
		acme    *directory.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		dir = directory.NewService(directoryPostgres.NewDirectoryRepository(db), slogger)
		service = user.NewService(userPostgres.NewUserRepository(db), dir, bcrypt.MinCost, slogger)

		acme, err = dir.CreateClient(ctx, directory.CreateClientDTO{Name: "Acme", TaxID: "900-1"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should create a user that can log in with its permissions", func() {
		created, err := service.CreateUser(ctx, nil, user.CreateUserDTO{
			Email:       " Clerk@Example.com ",
			Name:        "Clerk",
			Password:    "s3cret-pass",
			Permissions: []string{auth.PermissionManageEntries, auth.PermissionViewReports},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Email).To(Equal("clerk@example.com"))

		tokenGen := auth.NewJWTTokenGenerator(internal.SecurityConfig{
			AccessTokenSecret:  "access-secret-0123456789abcdef0123",
			RefreshTokenSecret: "refresh-secret-0123456789abcdef012",
		})
		authService := auth.NewService(authPostgres.NewRepository(db), tokenGen, tokenGen.AccessTokenTTL, slogger)
		tokens, err := authService.Authenticate(ctx, auth.LoginDTO{Email: "clerk@example.com", Password: "s3cret-pass"})
		Expect(err).NotTo(HaveOccurred())

		principal, err := authService.Authorize(ctx, tokens.AccessToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(principal.UserID).To(Equal(created.ID))
		Expect(principal.Permissions).To(ConsistOf(auth.PermissionManageEntries, auth.PermissionViewReports))
		Expect(principal.IsClientUser()).To(BeFalse())
	})

	It("should scope a client user to its company", func() {
		created, err := service.CreateUser(ctx, nil, user.CreateUserDTO{
			Email: "hr@acme.test", Name: "Acme HR", Password: "s3cret-pass",
			ClientID: &acme.ID, Permissions: []string{auth.PermissionManageEntries},
		})
		Expect(err).NotTo(HaveOccurred())

		loaded, err := service.GetByID(ctx, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(*loaded.ClientID).To(Equal(acme.ID))
		Expect(loaded.Permissions).To(Equal([]string{auth.PermissionManageEntries}))
	})

	It("should refuse admin rights for client users", func() {
		_, err := service.CreateUser(ctx, nil, user.CreateUserDTO{
			Email: "boss@acme.test", Name: "Boss", Password: "s3cret-pass",
			ClientID: &acme.ID, Permissions: []string{auth.PermissionAdmin},
		})
		Expect(err).To(MatchError(internal.NewValidationError("", internal.ErrCodeValidationFailed)))
	})

	It("should reject unknown permissions and clients", func() {
		_, err := service.CreateUser(ctx, nil, user.CreateUserDTO{
			Email: "a@b.test", Name: "A", Password: "s3cret-pass", Permissions: []string{"fly"},
		})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))

		missing := int64(999)
		_, err = service.CreateUser(ctx, nil, user.CreateUserDTO{
			Email: "a@b.test", Name: "A", Password: "s3cret-pass", ClientID: &missing,
		})
		Expect(err).To(MatchError(internal.ErrClientNotFound))
	})

	It("should report a taken email as a conflict", func() {
		dto := user.CreateUserDTO{Email: "dup@example.com", Name: "Dup", Password: "s3cret-pass"}
		_, err := service.CreateUser(ctx, nil, dto)
		Expect(err).NotTo(HaveOccurred())

		_, err = service.CreateUser(ctx, nil, dto)
		Expect(err).To(MatchError(internal.ErrEmailTaken))
	})

	It("should return not found for an unknown id", func() {
		_, err := service.GetByID(ctx, 404)
		Expect(err).To(MatchError(internal.ErrUserNotFound))
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := user.NewHandler(transport.NewBaseHandler(slogger), service)
			router = chi.NewRouter()
			router.Post("/users", handler.CreateUser)
			router.Get("/users", handler.ListUsers)
			router.Get("/users/{id}", handler.GetUser)
		})

		It("should create and list users without exposing the password hash", func() {
			body, _ := json.Marshal(map[string]interface{}{
				"email": "ops@example.com", "name": "Ops", "password": "s3cret-pass",
				"permissions": []string{auth.PermissionSettlePayments},
			})
			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), &internal.Principal{UserID: 1}))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(rec.Body.String()).NotTo(ContainSubstring("s3cret"))

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			var list struct {
				Users []user.UserResponse `json:"users"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
			Expect(list.Users).To(HaveLen(1))
			Expect(list.Users[0].Permissions).To(Equal([]string{auth.PermissionSettlePayments}))
			Expect(list.Users[0].CreatedAt).To(BeTemporally("~", time.Now(), time.Minute))
		})

		It("should 404 an unknown user", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/77", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})

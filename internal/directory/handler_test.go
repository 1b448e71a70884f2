package directory_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	directoryPostgres "github.com/frahmantamala/courier-payroll/internal/directory/postgres"
	"github.com/frahmantamala/courier-payroll/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Directory Handler Integration", func() {
	var (
		db      *gorm.DB
		service *directory.Service
		router  *chi.Mux
		client  *directory.Client
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		service = directory.NewService(directoryPostgres.NewDirectoryRepository(db), slogger)
		handler := directory.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees", handler.ListEmployees)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Post("/clients", handler.CreateClient)
		router.Get("/clients/{id}", handler.GetClient)

		client, err = service.CreateClient(context.Background(), directory.CreateClientDTO{Name: "Acme Foods", TaxID: "900123"})
		Expect(err).NotTo(HaveOccurred())
	})

	post := func(path string, body interface{}) *httptest.ResponseRecorder {
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("POST /employees", func() {
		It("creates a courier with the default kind", func() {
			w := post("/employees", map[string]interface{}{
				"fullName":          "Ana Ruiz",
				"documentId":        "CC-1",
				"defaultHourlyRate": "10000",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var employee directory.Employee
			Expect(json.NewDecoder(w.Body).Decode(&employee)).To(Succeed())
			Expect(employee.ID).To(BeNumerically(">", 0))
			Expect(employee.Kind).To(Equal(directory.KindCourier))
			Expect(employee.DefaultHourlyRate.Equal(decimal.NewFromInt(10000))).To(BeTrue())
		})

		It("requires a client for client staff", func() {
			w := post("/employees", map[string]interface{}{
				"fullName":   "Luis Paz",
				"documentId": "CC-2",
				"kind":       "client_staff",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("clientId"))
		})

		It("returns 404 for an unknown client", func() {
			w := post("/employees", map[string]interface{}{
				"fullName":   "Luis Paz",
				"documentId": "CC-2",
				"kind":       "client_staff",
				"clientId":   999,
			})
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("CLIENT_NOT_FOUND"))
		})

		It("rejects a duplicate document id with 409", func() {
			body := map[string]interface{}{"fullName": "Ana Ruiz", "documentId": "CC-1"}
			Expect(post("/employees", body).Code).To(Equal(http.StatusCreated))
			w := post("/employees", body)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("rejects unknown fields", func() {
			w := post("/employees", map[string]interface{}{"fullName": "A", "documentId": "1", "salary": 1})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /employees", func() {
		BeforeEach(func() {
			_, err := service.CreateEmployee(context.Background(), directory.CreateEmployeeDTO{FullName: "Zoe Courier", DocumentID: "C-1"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateEmployee(context.Background(), directory.CreateEmployeeDTO{
				FullName: "Ana Staff", DocumentID: "S-1", Kind: directory.KindClientStaff, ClientID: &client.ID,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists employees ordered by name", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var resp directory.EmployeesResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Employees).To(HaveLen(2))
			Expect(resp.Employees[0].FullName).To(Equal("Ana Staff"))
		})

		It("restricts client users to their own staff", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), &internal.Principal{UserID: 9, ClientID: &client.ID}))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var resp directory.EmployeesResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Employees).To(HaveLen(1))
			Expect(resp.Employees[0].Kind).To(Equal(directory.KindClientStaff))
		})

		It("filters by kind", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees?kind=courier", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var resp directory.EmployeesResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Employees).To(HaveLen(1))
			Expect(resp.Employees[0].FullName).To(Equal("Zoe Courier"))
		})
	})

	Describe("GET /employees/{id}", func() {
		It("returns 404 for a missing employee", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/42", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/abc", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("hides other clients' staff from client users", func() {
			courier, err := service.CreateEmployee(context.Background(), directory.CreateEmployeeDTO{FullName: "Zoe", DocumentID: "C-9"})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/employees/"+strconv.FormatInt(courier.ID, 10), nil)
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), &internal.Principal{UserID: 9, ClientID: &client.ID}))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("GET /clients/{id}", func() {
		It("returns the client", func() {
			req := httptest.NewRequest(http.MethodGet, "/clients/"+strconv.FormatInt(client.ID, 10), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var got directory.Client
			Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
			Expect(got.Name).To(Equal("Acme Foods"))
		})
	})
})

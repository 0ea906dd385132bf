package userdelivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"github.com/go-petr/portfolio-tracker/internal/domain"
	"github.com/go-petr/portfolio-tracker/pkg/errorspkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestLogin(t *testing.T) {
	user := domain.User{
		ID:       7,
		Username: "alice",
	}

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(service *MockService)
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name: "OK",
			url:  "/api/auth/login?username=alice",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq("alice")).
					Times(1).
					Return(user, nil)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var res struct {
					Data struct {
						User domain.User `json:"user"`
					} `json:"data"`
				}

				if err := json.Unmarshal(body, &res); err != nil {
					t.Fatalf("json.Unmarshal(%s) returned error: %v", body, err)
				}

				if diff := cmp.Diff(user, res.Data.User); diff != "" {
					t.Errorf("user mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "MissingUsername",
			url:  "/api/auth/login",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "NonAlphanumericUsername",
			url:  "/api/auth/login?username=a%20b",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "ServiceErr",
			url:  "/api/auth/login?username=alice",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq("alice")).
					Times(1).
					Return(domain.User{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			engine := gin.New()
			handler := NewHandler(service)
			engine.POST("/api/auth/login", handler.Login)

			req := httptest.NewRequest(http.MethodPost, tc.url, nil)
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatusCode {
				t.Fatalf("status code = %v, want %v, body %s", rec.Code, tc.wantStatusCode, rec.Body)
			}

			if tc.checkResponse != nil {
				tc.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuth(), func(c *gin.Context) {
		c.JSON(200, gin.H{"user_id": GetUserID(c), "username": GetUsername(c)})
	})
	return r
}

func TestJWTAuth_TokenRoundTrip(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, "alice", "admin")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	claims, err := ParseToken(access)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != "admin" {
		t.Errorf("claims 不对: %+v", claims)
	}
	if claims.Subject != "access" {
		t.Errorf("Subject = %q, want access", claims.Subject)
	}

	refreshClaims, err := ParseToken(refresh)
	if err != nil {
		t.Fatalf("解析 Refresh Token 失败: %v", err)
	}
	if refreshClaims.Subject != "refresh" {
		t.Errorf("Subject = %q, want refresh", refreshClaims.Subject)
	}
}

func TestJWTAuth_Middleware(t *testing.T) {
	r := setupAuthRouter()
	access, refresh, _ := GenerateTokenPair(7, "bob", "user")

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{name: "合法 Access Token", authHeader: "Bearer " + access, wantCode: 200},
		{name: "缺少认证头", authHeader: "", wantCode: 401},
		{name: "格式错误", authHeader: access, wantCode: 401},
		{name: "乱写的 Token", authHeader: "Bearer not-a-token", wantCode: 401},
		{name: "Refresh Token 不能当 Access 用", authHeader: "Bearer " + refresh, wantCode: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("状态码 = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestAnalyzeRateLimiter_Check(t *testing.T) {
	limiter := &AnalyzeRateLimiter{}
	key := AnalyzeKey("https://www.amazon.com/dp/LIMIT1")

	first := limiter.Check(key, 50*time.Millisecond)
	if !first.Allowed {
		t.Fatal("首次检查应当放行")
	}

	second := limiter.Check(key, 50*time.Millisecond)
	if second.Allowed {
		t.Fatal("冷却期内应当拦截")
	}
	if second.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, 应当为正", second.RetryAfter)
	}

	time.Sleep(60 * time.Millisecond)
	third := limiter.Check(key, 50*time.Millisecond)
	if !third.Allowed {
		t.Error("冷却结束后应当放行")
	}

	// 不同键互不影响
	other := limiter.Check(AnalyzeKey("https://www.amazon.com/dp/LIMIT2"), time.Minute)
	if !other.Allowed {
		t.Error("不同键不应共享冷却")
	}
}

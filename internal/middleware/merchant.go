package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const MerchantIDKey contextKey = "merchant_id"

// MerchantIDHeader names the merchant a request acts for.
const MerchantIDHeader = "X-Merchant-ID"

var merchantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

type Claims struct {
	MerchantID string `json:"merchant_id"`
	jwt.RegisteredClaims
}

// RequireMerchant resolves the calling merchant from X-Merchant-ID. When
// jwtSecret is set the request must also carry an HS256 bearer token whose
// merchant_id claim matches the header.
func RequireMerchant(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			merchantID := r.Header.Get(MerchantIDHeader)
			if merchantID == "" {
				writeAuthError(w, "missing "+MerchantIDHeader+" header", "merchant_required")
				return
			}
			if !merchantIDPattern.MatchString(merchantID) {
				writeAuthError(w, "invalid merchant id", "merchant_invalid")
				return
			}

			if jwtSecret != "" {
				claimed, err := merchantFromToken(r.Header.Get("Authorization"), jwtSecret)
				if err != nil {
					writeAuthError(w, err.Error(), "auth_invalid")
					return
				}
				if claimed != merchantID {
					writeAuthError(w, "token does not belong to merchant", "auth_merchant_mismatch")
					return
				}
			}

			ctx := context.WithValue(r.Context(), MerchantIDKey, merchantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func merchantFromToken(authHeader, secret string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization scheme")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(authHeader, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.MerchantID, nil
}

func GetMerchantID(ctx context.Context) (string, bool) {
	merchantID, ok := ctx.Value(MerchantIDKey).(string)
	return merchantID, ok
}

func writeAuthError(w http.ResponseWriter, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  code,
	})
}

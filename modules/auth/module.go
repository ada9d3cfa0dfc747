package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	domain "github.com/example/task-manager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Storage drivers understood by StoreConfig.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config configures the auth module.
type Config struct {
	JWT         JWTConfig
	Store       StoreConfig
	AdminEmails []string
	BcryptCost  int
}

// AuthModule provides authentication and profile services.
type AuthModule struct {
	cfg     Config
	store   UserStore
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates an AuthModule that opens its store on Start.
func NewModule(cfg Config) *AuthModule {
	return &AuthModule{cfg: cfg}
}

// NewModuleWithStore creates an AuthModule around an already open store.
func NewModuleWithStore(cfg Config, store UserStore) *AuthModule {
	m := &AuthModule{cfg: cfg, store: store}
	m.service = m.newService(store)
	return m
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start opens the user store and builds the service.
func (m *AuthModule) Start(ctx context.Context) error {
	if m.store == nil {
		store, err := openUserStore(ctx, m.cfg.Store)
		if err != nil {
			return err
		}
		m.store = store
		m.service = m.newService(store)
	}

	if m.cfg.JWT.SecretKey == DefaultSecretKey {
		log.Println("[auth] Warning: using the default JWT secret, set auth.jwt_secret in production")
	}
	log.Printf("[auth] Module started (driver: %s, admins: %d)", m.driver(), len(m.cfg.AdminEmails))
	return nil
}

// Stop closes the user store.
func (m *AuthModule) Stop(ctx context.Context) error {
	if m.store != nil {
		if err := m.store.Close(ctx); err != nil {
			log.Printf("[auth] Error closing store: %v", err)
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health reports whether the user store is reachable.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.driver(),
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-profile", json.Unmarshal, json.Marshal, m.handleGetProfile,
	); err != nil {
		return fmt.Errorf("failed to register get-profile service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-profile", json.Unmarshal, json.Marshal, m.handleUpdateProfile,
	); err != nil {
		return fmt.Errorf("failed to register update-profile service: %w", err)
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-profile, update-profile")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (SessionResponse, error) {
	u, tokens, err := m.service.Register(ctx, req.Name, req.Email, req.Password)
	return sessionResponse("register", u, tokens, err), nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (SessionResponse, error) {
	u, tokens, err := m.service.Login(ctx, req.Email, req.Password)
	return sessionResponse("login", u, tokens, err), nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (SessionResponse, error) {
	u, tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	return sessionResponse("refresh", u, tokens, err), nil
}

// handleValidateToken reports failures in the response so callers can tell
// a rejected token from a transport error.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		code := "invalid_token"
		if errors.Is(err, ErrExpiredToken) {
			code = "expired_token"
		}
		return ValidateTokenResponse{Valid: false, Error: code}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (m *AuthModule) handleGetProfile(ctx context.Context, req GetProfileRequest, _ *mono.Msg) (ProfileResponse, error) {
	profile, err := m.service.GetProfile(ctx, req.UserID)
	if err != nil {
		logInternal("get-profile", err)
		return ProfileResponse{Error: toServiceError(err)}, nil
	}
	return ProfileResponse{Profile: profile}, nil
}

func (m *AuthModule) handleUpdateProfile(ctx context.Context, req UpdateProfileRequest, _ *mono.Msg) (ProfileResponse, error) {
	profile, err := m.service.UpdateProfile(ctx, req.UserID, domain.ProfileUpdate{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		logInternal("update-profile", err)
		return ProfileResponse{Error: toServiceError(err)}, nil
	}
	return ProfileResponse{Profile: profile}, nil
}

func (m *AuthModule) newService(store UserStore) *AuthService {
	jwtConfig := m.cfg.JWT
	defaults := DefaultJWTConfig()
	if jwtConfig.SecretKey == "" {
		jwtConfig.SecretKey = defaults.SecretKey
	}
	if jwtConfig.AccessTokenDuration == 0 {
		jwtConfig.AccessTokenDuration = defaults.AccessTokenDuration
	}
	if jwtConfig.RefreshTokenDuration == 0 {
		jwtConfig.RefreshTokenDuration = defaults.RefreshTokenDuration
	}
	if jwtConfig.Issuer == "" {
		jwtConfig.Issuer = defaults.Issuer
	}
	m.cfg.JWT = jwtConfig

	return NewAuthService(store, NewBcryptHasher(m.cfg.BcryptCost), NewJWTManager(jwtConfig), m.cfg.AdminEmails)
}

func (m *AuthModule) driver() string {
	if m.cfg.Store.Driver == "" {
		return DriverSQLite
	}
	return m.cfg.Store.Driver
}

func sessionResponse(op string, u *domain.User, tokens *domain.TokenPair, err error) SessionResponse {
	if err != nil {
		logInternal(op, err)
		return SessionResponse{Error: toServiceError(err)}
	}
	profile := u.ToProfile()
	return SessionResponse{User: &profile, Tokens: tokens}
}

// logInternal logs errors that do not map to a known auth failure.
func logInternal(op string, err error) {
	if toServiceError(err).Code == "internal" {
		log.Printf("[auth] %s failed: %v", op, err)
	}
}

func openUserStore(ctx context.Context, cfg StoreConfig) (UserStore, error) {
	switch cfg.Driver {
	case DriverMongo:
		return ConnectMongoUserStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case DriverSQLite, "":
		path := cfg.SQLitePath
		if path == "" {
			path = "users.db"
		}
		return OpenSQLiteUserStore(path)
	default:
		return nil, fmt.Errorf("unknown user store driver %q", cfg.Driver)
	}
}

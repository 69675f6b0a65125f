package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/wxai-backend/internal/logger"
	"github.com/ignatzorin/wxai-backend/internal/mailer"
	"github.com/ignatzorin/wxai-backend/internal/models"
	"github.com/ignatzorin/wxai-backend/internal/otpstore"
	"github.com/ignatzorin/wxai-backend/internal/repository"
	"github.com/ignatzorin/wxai-backend/internal/validation"
)

// DefaultOTPRetention сколько запись хранится после истечения кода,
// чтобы проверка могла ответить «код истёк», а не «код не найден».
const DefaultOTPRetention = 10 * time.Minute

// OTPConfig параметры выдачи кодов.
type OTPConfig struct {
	TTL           time.Duration
	Retention     time.Duration
	MailTimeout   time.Duration
	HashOnRequest bool
}

// OTPService выдаёт и проверяет коды подтверждения регистрации.
type OTPService struct {
	users  UserStore
	store  otpstore.Store
	sender mailer.Sender
	tokens *TokenManager
	cfg    OTPConfig

	now          func() time.Time
	generateCode func() (string, error)
}

// OTPOption настраивает OTPService.
type OTPOption func(*OTPService)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) OTPOption {
	return func(s *OTPService) { s.now = now }
}

// WithCodeGenerator подменяет генератор кодов.
func WithCodeGenerator(gen func() (string, error)) OTPOption {
	return func(s *OTPService) { s.generateCode = gen }
}

// NewOTPService создаёт сервис подтверждения регистрации.
func NewOTPService(users UserStore, store otpstore.Store, sender mailer.Sender, tokens *TokenManager, cfg OTPConfig, opts ...OTPOption) *OTPService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Retention < 0 {
		cfg.Retention = 0
	}

	s := &OTPService{
		users:        users,
		store:        store,
		sender:       sender,
		tokens:       tokens,
		cfg:          cfg,
		now:          time.Now,
		generateCode: generateOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestCode создаёт заявку на регистрацию и отправляет код на почту.
// Повторный вызов для того же email заменяет заявку, прежний код перестаёт действовать.
func (s *OTPService) RequestCode(ctx context.Context, in SignupInput) error {
	in, err := in.normalize()
	if err != nil {
		return err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return fmt.Errorf("otp service: check email: %w", err)
	}
	if exists {
		return ErrAlreadyRegistered
	}

	code, err := s.generateCode()
	if err != nil {
		return fmt.Errorf("otp service: generate code: %w", err)
	}

	now := s.now()
	rec := models.PendingVerification{
		Email:     in.Email,
		Name:      in.Name,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if s.cfg.HashOnRequest {
		if rec.PasswordHash, err = hashPassword(in.Password); err != nil {
			return fmt.Errorf("otp service: %w", err)
		}
	} else {
		rec.Password = in.Password
	}

	if err := s.store.Put(ctx, in.Email, rec, s.cfg.TTL+s.cfg.Retention); err != nil {
		return fmt.Errorf("otp service: store pending: %w", err)
	}

	sendCtx := ctx
	if s.cfg.MailTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.cfg.MailTimeout)
		defer cancel()
	}

	if err := s.sender.SendOTP(sendCtx, mailer.OTPMessage{
		To:   in.Email,
		Name: in.Name,
		Code: code,
		TTL:  s.cfg.TTL,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "otp",
		"email":      in.Email,
		"expires_at": rec.ExpiresAt,
	}).Info("код подтверждения выдан")
	return nil
}

// VerifyCode проверяет код и завершает регистрацию.
// Заявка удаляется только после того, как пользователь сохранён.
func (s *OTPService) VerifyCode(ctx context.Context, email, code string) (*AuthResult, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonEmpty("код подтверждения", code); err != nil {
		return nil, err
	}
	email = validation.NormalizeEmail(email)

	now := s.now()
	lease, err := s.store.TakeIfValid(ctx, email, func(rec models.PendingVerification) error {
		if rec.Code != code {
			return ErrCodeMismatch
		}
		if rec.Expired(now) {
			return ErrCodeExpired
		}
		return nil
	})
	switch {
	case errors.Is(err, otpstore.ErrNotFound):
		return nil, ErrCodeNotFound
	case errors.Is(err, ErrCodeMismatch), errors.Is(err, ErrCodeExpired):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("otp service: take pending: %w", err)
	}

	// Захват снимается или фиксируется даже после отмены запроса.
	leaseCtx := context.WithoutCancel(ctx)
	log := logger.Log.WithFields(logrus.Fields{"component": "otp", "email": email})

	user, err := s.finalize(ctx, lease.Record())
	if err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			if cerr := lease.Commit(leaseCtx); cerr != nil {
				log.WithError(cerr).Warn("не удалось удалить заявку")
			}
			return nil, err
		}
		if rerr := lease.Release(leaseCtx); rerr != nil {
			log.WithError(rerr).Error("не удалось вернуть заявку")
		}
		return nil, err
	}

	if err := lease.Commit(leaseCtx); err != nil {
		log.WithError(err).Warn("пользователь создан, но заявка не удалена")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("otp service: issue token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("регистрация подтверждена")
	return &AuthResult{User: user, Token: token}, nil
}

func (s *OTPService) finalize(ctx context.Context, rec models.PendingVerification) (*models.User, error) {
	hash := rec.PasswordHash
	if hash == "" {
		var err error
		if hash, err = hashPassword(rec.Password); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
		}
	}

	user := &models.User{
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return user, nil
}

// generateOTP возвращает шестизначный код, равномерно распределённый на [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rylimitless/electrolytes/internal/infra/security"
	"github.com/rylimitless/electrolytes/internal/repository"
)

func TestPasswordResetService_VerifySecurityAnswer(t *testing.T) {
	repo := &mockUserRepository{getByUsernameResult: activeTestUser(t)}
	svc := NewPasswordResetService(repo, nil, nil)

	if err := svc.VerifySecurityAnswer(context.Background(), "alice", "rex"); err != nil {
		t.Fatalf("expected matching answer to verify, got %v", err)
	}

	if err := svc.VerifySecurityAnswer(context.Background(), "alice", "fido"); !errors.Is(err, ErrInvalidSecurityAnswer) {
		t.Fatalf("expected ErrInvalidSecurityAnswer, got %v", err)
	}
}

func TestPasswordResetService_VerifySecurityAnswer_UnknownUser(t *testing.T) {
	repo := &mockUserRepository{getByUsernameErr: repository.ErrNotFound}
	svc := NewPasswordResetService(repo, nil, nil)

	if err := svc.VerifySecurityAnswer(context.Background(), "nobody", "rex"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	repo := &mockUserRepository{getByUsernameResult: activeTestUser(t)}
	svc := NewPasswordResetService(repo, nil, nil)

	newPassword := "Fresh!Credential#4321"
	if err := svc.ResetPassword(context.Background(), "alice", "rex", newPassword); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if repo.updatePasswordCalls != 1 || repo.updatePasswordUser != "alice" {
		t.Fatalf("expected one password update for alice, got %d for %q",
			repo.updatePasswordCalls, repo.updatePasswordUser)
	}
	if ok, err := security.VerifySecret(newPassword, repo.updatePasswordHash); err != nil || !ok {
		t.Fatalf("expected stored digest to verify against the new password, ok=%v err=%v", ok, err)
	}
}

func TestPasswordResetService_ResetPassword_GatesOnAnswer(t *testing.T) {
	repo := &mockUserRepository{getByUsernameResult: activeTestUser(t)}
	svc := NewPasswordResetService(repo, nil, nil)

	err := svc.ResetPassword(context.Background(), "alice", "wrong", "Fresh!Credential#4321")
	if !errors.Is(err, ErrInvalidSecurityAnswer) {
		t.Fatalf("expected ErrInvalidSecurityAnswer, got %v", err)
	}
	if repo.updatePasswordCalls != 0 {
		t.Fatalf("expected no password update, got %d calls", repo.updatePasswordCalls)
	}
}

func TestPasswordResetService_ResetPassword_WeakPassword(t *testing.T) {
	repo := &mockUserRepository{getByUsernameResult: activeTestUser(t)}
	svc := NewPasswordResetService(repo, nil, nil)

	err := svc.ResetPassword(context.Background(), "alice", "rex", "short")
	if !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}
	if repo.updatePasswordCalls != 0 {
		t.Fatalf("expected no password update, got %d calls", repo.updatePasswordCalls)
	}
}

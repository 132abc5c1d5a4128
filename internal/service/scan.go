package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
)

var (
	ErrInvalidStatus = errors.New("invalid status")
)

// UnitOfWork runs fn against repositories that share one transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(s repository.Stores) error) error
}

type ScanService struct {
	uow UnitOfWork
	now func() time.Time
}

func NewScanService(uow UnitOfWork) *ScanService {
	return &ScanService{
		uow: uow,
		now: time.Now,
	}
}

// Resolve decodes a scanned payload and returns the owner of the token with
// the statuses recorded so far.
func (s *ScanService) Resolve(ctx context.Context, payload string) (domain.ScanView, error) {
	raw, ok := domain.ParseQRPayload(payload)
	if !ok {
		return domain.ScanView{}, ErrQRBadFormat
	}

	var view domain.ScanView
	err := s.uow.Do(ctx, func(st repository.Stores) error {
		token, err := checkToken(ctx, st.QRTokens, raw, s.now())
		if err != nil {
			return err
		}

		statuses, err := st.Statuses.FindByUserID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("st.Statuses.FindByUserID -> %w", err)
		}

		view = domain.ScanView{
			User:        token.User,
			Statuses:    statuses,
			QRExpiresAt: token.ExpiresAt,
		}

		return nil
	})
	if err != nil {
		return domain.ScanView{}, err
	}

	return view, nil
}

// Apply records status for the menu item ref on behalf of the token owner.
// The token check, the upsert and the re-read of the statuses happen in one
// transaction, so nothing is written when the token or the menu item is
// rejected.
func (s *ScanService) Apply(ctx context.Context, payload string, ref domain.MenuRef, status domain.ItemStatus) (domain.ScanOutcome, error) {
	if !status.IsValid() {
		return domain.ScanOutcome{}, ErrInvalidStatus
	}

	raw, ok := domain.ParseQRPayload(payload)
	if !ok {
		return domain.ScanOutcome{}, ErrQRBadFormat
	}

	var outcome domain.ScanOutcome
	err := s.uow.Do(ctx, func(st repository.Stores) error {
		now := s.now()

		token, err := checkToken(ctx, st.QRTokens, raw, now)
		if err != nil {
			return err
		}

		menu, err := resolveMenu(ctx, st.Menus, ref)
		if err != nil {
			return err
		}

		if err := st.Statuses.Set(ctx, token.UserID, menu.ID, status, now); err != nil {
			return fmt.Errorf("st.Statuses.Set -> %w", err)
		}

		statuses, err := st.Statuses.FindByUserID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("st.Statuses.FindByUserID -> %w", err)
		}

		outcome = domain.ScanOutcome{
			User: token.User,
			Updated: domain.StatusChange{
				MenuID:   menu.ID,
				MenuName: menu.Name,
				Status:   status,
			},
			Statuses:  statuses,
			Timestamp: now,
		}

		return nil
	})
	if err != nil {
		return domain.ScanOutcome{}, err
	}

	return outcome, nil
}

type menuFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Menu, error)
	FindByName(ctx context.Context, name string) (domain.Menu, error)
}

func resolveMenu(ctx context.Context, menus menuFinder, ref domain.MenuRef) (domain.Menu, error) {
	switch ref.Kind {
	case domain.MenuRefByID:
		return findMenu(menus.FindByID(ctx, ref.ID))
	case domain.MenuRefByName:
		return findMenu(menus.FindByName(ctx, ref.Name))
	case domain.MenuRefAuto:
		if id, err := strconv.ParseUint(strings.TrimSpace(ref.Name), 10, 64); err == nil {
			menu, err := findMenu(menus.FindByID(ctx, uint(id)))
			if !errors.Is(err, ErrMenuNotFound) {
				return menu, err
			}
		}
		return findMenu(menus.FindByName(ctx, ref.Name))
	}

	return domain.Menu{}, ErrMenuNotFound
}

func findMenu(menu domain.Menu, err error) (domain.Menu, error) {
	if err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			return domain.Menu{}, ErrMenuNotFound
		}

		return domain.Menu{}, fmt.Errorf("menus.Find -> %w", err)
	}

	return menu, nil
}

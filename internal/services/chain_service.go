package services

import (
	"context"

	"github.com/hassaanshah24/minute2.0/internal/apperrors"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ChainService manages approval chain definitions: creation with an ordered
// member list, linking a chain to a minute, and pre-submission teardown.
type ChainService struct {
	db     *gorm.DB
	chains store.ChainStore
	ledger store.LedgerStore
	log    zerolog.Logger
}

// NewChainService creates a chain service.
func NewChainService(db *gorm.DB, log zerolog.Logger) *ChainService {
	return &ChainService{db: db, log: log}
}

// Create stores a chain with members at positions 1..N in the given order.
// A duplicate user in approverIDs fails the whole creation. When minuteID is
// set the chain is linked to that minute, which must still be a Draft
// without a chain.
func (s *ChainService) Create(ctx context.Context, actorID uint64, name string, minuteID *uint64, approverIDs []uint64) (*models.ApprovalChain, error) {
	if name == "" {
		return nil, apperrors.Errorf(apperrors.KindInvalidInput, "chain name is required")
	}

	var chain *models.ApprovalChain
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain = &models.ApprovalChain{
			Name:        name,
			CreatedByID: actorID,
			Status:      models.ChainActive,
		}
		if err := tx.Create(chain).Error; err != nil {
			return err
		}

		for _, userID := range approverIDs {
			var user models.User
			if err := tx.First(&user, userID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NotFound("user", userID)
				}
				return err
			}
			if _, err := s.chains.AddMember(tx, chain.ChainID, userID, nil); err != nil {
				return err
			}
		}

		if minuteID != nil {
			return s.linkLocked(tx, chain, *minuteID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint64("chain_id", chain.ChainID).
		Str("name", name).
		Int("members", len(approverIDs)).
		Msg("approval chain created")
	return s.Get(ctx, chain.ChainID)
}

// linkLocked binds a chain to a Draft minute under the minute's row lock.
// Both sides of the one-to-one are written in the same transaction.
func (s *ChainService) linkLocked(tx *gorm.DB, chain *models.ApprovalChain, minuteID uint64) error {
	minute, err := s.ledger.LockMinute(tx, minuteID)
	if err != nil {
		return err
	}
	if minute.Status != models.MinuteDraft {
		return apperrors.Errorf(apperrors.KindTerminalState, "minute %s already left Draft", minute.UniqueID)
	}
	if minute.ChainID != nil {
		return apperrors.Errorf(apperrors.KindDuplicateEntry, "minute %s already has a chain", minute.UniqueID)
	}
	if chain.MinuteID != nil {
		return apperrors.Errorf(apperrors.KindDuplicateEntry, "chain %d is already linked to a minute", chain.ChainID)
	}

	chain.MinuteID = &minuteID
	if err := tx.Model(chain).Update("minute_id", minuteID).Error; err != nil {
		return err
	}
	return tx.Model(minute).Update("chain_id", chain.ChainID).Error
}

// AttachToMinute links an existing chain to a Draft minute.
func (s *ChainService) AttachToMinute(ctx context.Context, chainID, minuteID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain, err := s.chains.GetChain(tx, chainID)
		if err != nil {
			return err
		}
		return s.linkLocked(tx, chain, minuteID)
	})
}

// Get loads a chain with its members in position order.
func (s *ChainService) Get(ctx context.Context, chainID uint64) (*models.ApprovalChain, error) {
	var chain models.ApprovalChain
	err := s.db.WithContext(ctx).
		Preload("Approvers", func(db *gorm.DB) *gorm.DB {
			return db.Order("approval_order ASC")
		}).
		Preload("Approvers.User").
		First(&chain, chainID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("chain", chainID)
		}
		return nil, err
	}
	return &chain, nil
}

// List returns all chains, newest first.
func (s *ChainService) List(ctx context.Context) ([]models.ApprovalChain, error) {
	var chains []models.ApprovalChain
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&chains).Error
	return chains, err
}

// Delete removes a chain and its members. Allowed only while the linked
// minute, if any, is still a Draft; submitted flows keep their chain as
// part of the record.
func (s *ChainService) Delete(ctx context.Context, chainID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain, err := s.chains.GetChain(tx, chainID)
		if err != nil {
			return err
		}
		if chain.MinuteID != nil {
			minute, err := s.ledger.LockMinute(tx, *chain.MinuteID)
			if err != nil {
				return err
			}
			if minute.Status != models.MinuteDraft {
				return apperrors.Errorf(apperrors.KindTerminalState,
					"chain %d belongs to a submitted minute", chainID)
			}
			if err := tx.Model(minute).Update("chain_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("chain_id = ?", chainID).Delete(&models.Approver{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ApprovalChain{}, chainID).Error
	})
}

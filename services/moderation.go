package services

import (
	"context"
	"errors"
	"time"

	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/store"
	"github.com/smartspend/smartspend-api/utils"
)

var (
	ErrForbidden         = errors.New("access denied")
	ErrInvalidTransition = errors.New("invalid moderation transition")
)

// ============================================================================
// STATE MACHINE
// ============================================================================

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateDeleted  State = "deleted"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// InitialState is approved for admin authors and pending for everyone else.
func InitialState(authorIsAdmin bool) State {
	if authorIsAdmin {
		return StateApproved
	}
	return StatePending
}

func stateOf(approved bool) State {
	if approved {
		return StateApproved
	}
	return StatePending
}

// Transition applies a moderation action. Only admins may act. Approving an
// approved item is a no-op; nothing leaves approved or deleted otherwise.
func Transition(actorIsAdmin bool, from State, action Action) (State, error) {
	if !actorIsAdmin {
		return from, ErrForbidden
	}
	switch from {
	case StatePending:
		switch action {
		case ActionApprove:
			return StateApproved, nil
		case ActionReject:
			return StateDeleted, nil
		}
	case StateApproved:
		if action == ActionApprove {
			return StateApproved, nil
		}
	}
	return from, ErrInvalidTransition
}

// ============================================================================
// SERVICE
// ============================================================================

type ModerationService struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

func NewModerationService(s store.Store, n Notifier) *ModerationService {
	return &ModerationService{store: s, notifier: orNop(n), now: time.Now}
}

func (s *ModerationService) today() string {
	return s.now().UTC().Format(models.DateLayout)
}

// --- Tips ---

func (s *ModerationService) CreateTip(ctx context.Context, author *models.User, req models.CommunityTipRequest) (*models.CommunityTip, error) {
	tip := &models.CommunityTip{
		UserID:     author.ID,
		Title:      req.Title,
		Content:    req.Content,
		DatePosted: s.today(),
		Approved:   InitialState(author.IsAdmin) == StateApproved,
	}
	if err := s.store.CreateTip(ctx, tip); err != nil {
		return nil, err
	}

	if !tip.Approved {
		s.notifier.NotifyAdmins(Event{Type: EventTipSubmitted, ID: tip.ID, Data: tip})
	}
	utils.LogModeration("submit", "tip", tip.ID, author.ID)
	return tip, nil
}

func (s *ModerationService) ListApprovedTips(ctx context.Context) ([]models.CommunityTip, error) {
	return s.store.ListTips(ctx, store.ListFilter{ApprovedOnly: true})
}

func (s *ModerationService) ListAllTips(ctx context.Context) ([]models.CommunityTip, error) {
	return s.store.ListTips(ctx, store.ListFilter{})
}

func (s *ModerationService) ListUserTips(ctx context.Context, userID string) ([]models.CommunityTip, error) {
	return s.store.ListTips(ctx, store.ListFilter{UserID: userID})
}

func (s *ModerationService) ApproveTip(ctx context.Context, actor *models.User, id string) (*models.CommunityTip, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}

	changed := false
	tip, err := s.store.ModifyTip(ctx, id, func(t *models.CommunityTip) error {
		from := stateOf(t.Approved)
		next, err := Transition(actor.IsAdmin, from, ActionApprove)
		if err != nil {
			return err
		}
		changed = from != next
		t.Approved = next == StateApproved
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifier.NotifyUser(tip.UserID, Event{Type: EventTipApproved, ID: tip.ID, Data: tip})
		utils.LogModeration("approve", "tip", tip.ID, actor.ID)
	}
	return tip, nil
}

// RejectTip deletes a pending tip.
func (s *ModerationService) RejectTip(ctx context.Context, actor *models.User, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}

	var authorID string
	err := s.store.RemoveTip(ctx, id, func(t *models.CommunityTip) error {
		authorID = t.UserID
		_, err := Transition(actor.IsAdmin, stateOf(t.Approved), ActionReject)
		return err
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyUser(authorID, Event{Type: EventTipRejected, ID: id})
	utils.LogModeration("reject", "tip", id, actor.ID)
	return nil
}

// LikeTip is open to any authenticated user regardless of moderation state.
func (s *ModerationService) LikeTip(ctx context.Context, userID, id string) (*models.CommunityTip, error) {
	return s.store.LikeTip(ctx, id, userID)
}

// --- Deals ---

func (s *ModerationService) CreateDeal(ctx context.Context, author *models.User, req models.DealRequest) (*models.Deal, error) {
	deal := &models.Deal{
		UserID:      author.ID,
		Store:       req.Store,
		Description: req.Description,
		Discount:    req.Discount,
		ExpiryDate:  req.ExpiryDate,
		Approved:    InitialState(author.IsAdmin) == StateApproved,
	}
	if err := s.store.CreateDeal(ctx, deal); err != nil {
		return nil, err
	}

	if !deal.Approved {
		s.notifier.NotifyAdmins(Event{Type: EventDealSubmitted, ID: deal.ID, Data: deal})
	}
	utils.LogModeration("submit", "deal", deal.ID, author.ID)
	return deal, nil
}

// ListActiveDeals returns approved deals that have not expired. A deal is
// still valid on its expiry date.
func (s *ModerationService) ListActiveDeals(ctx context.Context) ([]models.Deal, error) {
	deals, err := s.store.ListDeals(ctx, store.ListFilter{ApprovedOnly: true})
	if err != nil {
		return nil, err
	}

	today := s.today()
	active := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if d.ExpiryDate != "" && d.ExpiryDate < today {
			continue
		}
		active = append(active, d)
	}
	return active, nil
}

func (s *ModerationService) ListAllDeals(ctx context.Context) ([]models.Deal, error) {
	return s.store.ListDeals(ctx, store.ListFilter{})
}

func (s *ModerationService) ListUserDeals(ctx context.Context, userID string) ([]models.Deal, error) {
	return s.store.ListDeals(ctx, store.ListFilter{UserID: userID})
}

func (s *ModerationService) ApproveDeal(ctx context.Context, actor *models.User, id string) (*models.Deal, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}

	changed := false
	deal, err := s.store.ModifyDeal(ctx, id, func(d *models.Deal) error {
		from := stateOf(d.Approved)
		next, err := Transition(actor.IsAdmin, from, ActionApprove)
		if err != nil {
			return err
		}
		changed = from != next
		d.Approved = next == StateApproved
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifier.NotifyUser(deal.UserID, Event{Type: EventDealApproved, ID: deal.ID, Data: deal})
		utils.LogModeration("approve", "deal", deal.ID, actor.ID)
	}
	return deal, nil
}

func (s *ModerationService) RejectDeal(ctx context.Context, actor *models.User, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}

	var authorID string
	err := s.store.RemoveDeal(ctx, id, func(d *models.Deal) error {
		authorID = d.UserID
		_, err := Transition(actor.IsAdmin, stateOf(d.Approved), ActionReject)
		return err
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyUser(authorID, Event{Type: EventDealRejected, ID: id})
	utils.LogModeration("reject", "deal", id, actor.ID)
	return nil
}

package services

import (
	"errors"
	"log"

	"comic-publish-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeService evaluates the badge catalog against a user's stats and manages
// the catalog itself.
type BadgeService struct {
	DB      *gorm.DB
	Enabled bool
}

func NewBadgeService(db *gorm.DB, enabled bool) *BadgeService {
	return &BadgeService{DB: db, Enabled: enabled}
}

// EvaluateForUser grants every active, not-yet-earned badge whose threshold
// the user now meets, in one pass. It runs inside the award transaction so
// grants commit with the point update, but its own failures are logged and
// swallowed: a broken badge row must never void a valid point grant.
func (s *BadgeService) EvaluateForUser(tx *gorm.DB, user *models.User) []models.Badge {
	if !s.Enabled {
		return nil
	}

	var earnedIDs []string
	if err := tx.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Pluck("badge_id", &earnedIDs).Error; err != nil {
		log.Printf("⚠️  badge check skipped for user %s: %v", user.ID, err)
		return nil
	}

	query := tx.Where("is_active = ?", true)
	if len(earnedIDs) > 0 {
		query = query.Where("id NOT IN ?", earnedIDs)
	}
	var candidates []models.Badge
	if err := query.Find(&candidates).Error; err != nil {
		log.Printf("⚠️  badge check skipped for user %s: %v", user.ID, err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	// Count once, not per badge.
	counts := make(map[models.ActivityType]int64, 2)
	for _, t := range []models.ActivityType{models.ActivityComment, models.ActivityReadChapter} {
		var n int64
		if err := tx.Model(&models.UserActivity{}).
			Where("user_id = ? AND activity_type = ?", user.ID, t).
			Count(&n).Error; err != nil {
			log.Printf("⚠️  badge check skipped for user %s: %v", user.ID, err)
			return nil
		}
		counts[t] = n
	}

	var grants []models.UserBadge
	var won []models.Badge
	for _, b := range candidates {
		if badgeRequirementMet(&b, user, counts) {
			grants = append(grants, models.UserBadge{ID: uuid.NewString(), UserID: user.ID, BadgeID: b.ID})
			won = append(won, b)
		}
	}
	if len(grants) == 0 {
		return nil
	}

	// The composite unique index plus DO NOTHING keeps a racing evaluation
	// from double-granting.
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error; err != nil {
		log.Printf("⚠️  badge grant failed for user %s: %v", user.ID, err)
		return nil
	}
	for _, b := range won {
		log.Printf("🎖️  badge awarded: %s → %s", b.Name, user.ID)
	}
	return won
}

func badgeRequirementMet(b *models.Badge, user *models.User, counts map[models.ActivityType]int64) bool {
	switch b.RequirementType {
	case models.RequirePoints:
		return user.Points >= b.RequirementValue
	case models.RequireLevel:
		return int64(user.Level) >= b.RequirementValue
	case models.RequireComments:
		return counts[models.ActivityComment] >= b.RequirementValue
	case models.RequireReads:
		return counts[models.ActivityReadChapter] >= b.RequirementValue
	}
	return false
}

// EarnedBadge is one row of a user's badge listing.
type EarnedBadge struct {
	BadgeID     string `json:"badge_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	EarnedAt    string `json:"earned_at"`
}

// ListUserBadges returns the badges a user has earned, newest first.
func (s *BadgeService) ListUserBadges(userID string) ([]EarnedBadge, error) {
	if !s.Enabled {
		return nil, ErrBadgesDisabled
	}
	var userBadges []models.UserBadge
	if err := s.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&userBadges).Error; err != nil {
		return nil, err
	}

	earned := make([]EarnedBadge, 0, len(userBadges))
	for _, ub := range userBadges {
		earned = append(earned, EarnedBadge{
			BadgeID:     ub.BadgeID,
			Name:        ub.Badge.Name,
			Description: ub.Badge.Description,
			Icon:        ub.Badge.Icon,
			Category:    ub.Badge.Category,
			EarnedAt:    ub.EarnedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return earned, nil
}

// AvailableBadge is one row of the full catalog listing, flagged with whether
// the requesting user already holds it.
type AvailableBadge struct {
	BadgeID          string                 `json:"badge_id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Icon             string                 `json:"icon"`
	Category         string                 `json:"category"`
	RequirementType  models.RequirementType `json:"requirement_type"`
	RequirementValue int64                  `json:"requirement_value"`
	IsEarned         bool                   `json:"is_earned"`
}

// ListAvailableBadges returns every active badge with an is_earned flag for
// the given user.
func (s *BadgeService) ListAvailableBadges(userID string) ([]AvailableBadge, error) {
	if !s.Enabled {
		return nil, ErrBadgesDisabled
	}
	var badges []models.Badge
	if err := s.DB.Where("is_active = ?", true).Order("created_at").Find(&badges).Error; err != nil {
		return nil, err
	}
	var earnedIDs []string
	if err := s.DB.Model(&models.UserBadge{}).Where("user_id = ?", userID).Pluck("badge_id", &earnedIDs).Error; err != nil {
		return nil, err
	}
	earned := make(map[string]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	out := make([]AvailableBadge, 0, len(badges))
	for _, b := range badges {
		out = append(out, AvailableBadge{
			BadgeID:          b.ID,
			Name:             b.Name,
			Description:      b.Description,
			Icon:             b.Icon,
			Category:         b.Category,
			RequirementType:  b.RequirementType,
			RequirementValue: b.RequirementValue,
			IsEarned:         earned[b.ID],
		})
	}
	return out, nil
}

// CreateBadge adds a catalog entry (admin tooling). The code is derived from
// the name.
func (s *BadgeService) CreateBadge(b *models.Badge) error {
	if !b.RequirementType.Valid() {
		return ErrInvalidRequirement
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Code == "" {
		b.Code = slug.Make(b.Name)
	}
	err := s.DB.Create(b).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrBadgeExists
	}
	return err
}

package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/classifier"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"gorm.io/gorm"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrNotAuthor       = errors.New("only the author can edit this content")
	ErrBodyRequired    = errors.New("body is required")
	ErrReasonRequired  = errors.New("reason is required")
	ErrTargetRequired  = errors.New("target content id is required")
	ErrInvalidStatus   = errors.New("invalid moderation status")
)

// Classifier is the external policy-classification collaborator. It never
// fails: outages come back as the safe-default verdict.
type Classifier interface {
	Classify(ctx context.Context, content, reason, language string) classifier.Verdict
}

// Assessor is the local crisis-risk scanner.
type Assessor interface {
	Assess(text string) models.RiskLevel
}

// Notifier delivers best-effort notices. NotifyModerators resolves the
// moderator roster once per call.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string, typ models.NotificationType, metadata map[string]interface{}) error
	NotifyModerators(ctx context.Context, title, message string, typ models.NotificationType, metadata map[string]interface{}) error
}

// ReportResult is the outcome of a report submission.
type ReportResult struct {
	Flag           *models.Flag        `json:"flag,omitempty"`
	Verdict        *classifier.Verdict `json:"verdict,omitempty"`
	ActionTaken    bool                `json:"action_taken"`
	AlreadyFlagged bool                `json:"already_flagged"`
}

// Engine coordinates the moderation pipeline: risk assessment,
// classification, decision mapping, persistence and notification fan-out.
// Entry points are reentrant and safe to run concurrently for different
// content items; for the same item the flag unique index is the only guard
// needed, since decision writes are idempotent per verdict.
type Engine struct {
	db               *gorm.DB
	assessor         Assessor
	classifier       Classifier
	flags            *FlagStore
	notifier         Notifier
	reclassifyOnEdit bool
}

func NewEngine(db *gorm.DB, assessor Assessor, cls Classifier, flags *FlagStore, notifier Notifier, reclassifyOnEdit bool) *Engine {
	return &Engine{
		db:               db,
		assessor:         assessor,
		classifier:       cls,
		flags:            flags,
		notifier:         notifier,
		reclassifyOnEdit: reclassifyOnEdit,
	}
}

// CreateContent persists new content and runs the full moderation pass over
// it. Classification is best-effort: content is never blocked from publishing
// because the classifier was unreachable, though the mapped decision (safe
// default included) always applies.
func (e *Engine) CreateContent(ctx context.Context, authorID uuid.UUID, kind models.ContentKind, body, language string) (*models.ContentItem, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrBodyRequired
	}
	if language == "" {
		language = "en"
	}
	switch kind {
	case models.KindPost, models.KindReply, models.KindComment:
	default:
		kind = models.KindPost
	}

	content := &models.ContentItem{
		ID:               uuid.New(),
		Kind:             kind,
		AuthorID:         authorID,
		Body:             body,
		Language:         language,
		RiskLevel:        models.RiskNone,
		ModerationStatus: models.ModerationPending,
	}
	if err := e.db.Create(content).Error; err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	risk := e.assessor.Assess(body)
	verdict := e.classifier.Classify(ctx, body, "", language)
	decision := MapDecision(verdict, risk)

	if err := e.applyDecision(content, risk, decision); err != nil {
		return nil, err
	}

	if decision.Status == models.ModerationUnderReview || decision.Status == models.ModerationRejected || decision.Flagged {
		e.notifyModerators(ctx, content, risk, decision, "New content requires attention")
	}
	if decision.Status == models.ModerationRejected {
		e.notify(ctx, content.AuthorID, "Your content was removed",
			"Your "+string(content.Kind)+" was removed for violating community guidelines. "+decision.Note,
			models.NotificationModerationAction, contentMeta(content))
	}

	return content, nil
}

// EditContent re-assesses risk on the new body and, when configured,
// re-runs the policy classifier. An edit never downgrades an existing
// REJECTED or UNDER_REVIEW status back to APPROVED; only an explicit
// moderator review does that.
func (e *Engine) EditContent(ctx context.Context, editorID, contentID uuid.UUID, newBody string) (*models.ContentItem, error) {
	if strings.TrimSpace(newBody) == "" {
		return nil, ErrBodyRequired
	}

	content, err := e.loadContent(contentID)
	if err != nil {
		return nil, err
	}
	if content.AuthorID != editorID {
		return nil, ErrNotAuthor
	}

	wasFlagged := content.Flagged
	risk := e.assessor.Assess(newBody)
	riskFlag := risk == models.RiskMedium || risk == models.RiskHigh

	content.Body = newBody
	content.RiskLevel = risk

	if e.reclassifyOnEdit {
		verdict := e.classifier.Classify(ctx, newBody, "", content.Language)
		decision := MapDecision(verdict, risk)
		escalated := content.ModerationStatus == models.ModerationRejected ||
			content.ModerationStatus == models.ModerationUnderReview
		if decision.Status == models.ModerationApproved && escalated {
			// keep the standing status and visibility
			content.Flagged = wasFlagged || riskFlag
		} else {
			now := time.Now()
			content.ModerationStatus = decision.Status
			content.IsHidden = decision.IsHidden
			content.Flagged = decision.Flagged || riskFlag
			content.ModerationReason = decision.Reason
			content.ModerationNote = decision.Note
			content.ModeratedAt = &now
		}
	} else {
		content.Flagged = wasFlagged || riskFlag
	}

	if err := e.db.Save(content).Error; err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	if !wasFlagged && content.Flagged {
		e.notifyModerators(ctx, content, risk, Decision{Status: content.ModerationStatus, Flagged: true}, "Edited content flagged for attention")
	}

	return content, nil
}

// ReportContent handles a user flag end to end: dedup guard, classification
// with the report reason, flag completion, decision against the content's
// current risk level, and the three-way notification fan-out. A duplicate
// report returns AlreadyFlagged with no classifier call and no notifications.
func (e *Engine) ReportContent(ctx context.Context, reporterID, contentID uuid.UUID, reason string) (*ReportResult, error) {
	if contentID == uuid.Nil {
		return nil, ErrTargetRequired
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	content, err := e.loadContent(contentID)
	if err != nil {
		return nil, err
	}

	flag, err := e.flags.TryCreate(reporterID, contentID, reason)
	if errors.Is(err, ErrDuplicateFlag) {
		return &ReportResult{AlreadyFlagged: true}, nil
	}
	if err != nil {
		return nil, err
	}

	verdict := e.classifier.Classify(ctx, content.Body, reason, content.Language)
	if err := e.flags.Complete(flag, verdict); err != nil {
		return nil, err
	}

	decision := MapDecision(verdict, content.RiskLevel)
	if err := e.applyDecision(content, content.RiskLevel, decision); err != nil {
		return nil, err
	}

	meta := contentMeta(content)
	meta["flag_id"] = flag.ID.String()
	meta["report_reason"] = reason

	if verdict.ViolatesPolicy {
		e.notifyModeratorsRaw(ctx, "Report reviewed: violation confirmed",
			fmt.Sprintf("A reported %s was classified as violating policy (%s). Status: %s.",
				content.Kind, strings.Join(verdict.ViolationTypes, ", "), decision.Status), meta)
	} else {
		e.notifyModeratorsRaw(ctx, "Report reviewed: no violation found",
			fmt.Sprintf("A reported %s was reviewed and no policy violation was found.", content.Kind), meta)
	}

	if verdict.ViolatesPolicy && content.AuthorID != reporterID {
		e.notify(ctx, content.AuthorID, "Action taken on your content",
			"Your "+string(content.Kind)+" was reported and reviewed. "+decision.Note,
			models.NotificationModerationAction, contentMeta(content))
	}

	outcome := "Our review found no policy violation. Thank you for helping keep the community safe."
	if verdict.ViolatesPolicy {
		outcome = "Our review confirmed a policy violation and action has been taken. Thank you for your report."
	}
	e.notify(ctx, reporterID, "Your report was reviewed", outcome,
		models.NotificationReportOutcome, meta)

	return &ReportResult{
		Flag:           flag,
		Verdict:        &verdict,
		ActionTaken:    verdict.ViolatesPolicy,
		AlreadyFlagged: false,
	}, nil
}

// ReviewContent is the explicit moderator action that can move a content item
// to any final status, including improving it back to APPROVED. Approving
// always unhides; rejecting always hides.
func (e *Engine) ReviewContent(ctx context.Context, contentID uuid.UUID, status models.ModerationStatus, note string) (*models.ContentItem, error) {
	switch status {
	case models.ModerationApproved, models.ModerationUnderReview, models.ModerationRejected:
	default:
		return nil, ErrInvalidStatus
	}

	content, err := e.loadContent(contentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	content.ModerationStatus = status
	content.ModeratedAt = &now
	if note != "" {
		content.ModerationNote = note
	}
	switch status {
	case models.ModerationApproved:
		content.IsHidden = false
		content.Flagged = false
	case models.ModerationRejected:
		content.IsHidden = true
		content.Flagged = true
	}

	if err := e.db.Save(content).Error; err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	title := "Your content was reviewed"
	message := "A moderator reviewed your " + string(content.Kind) + ". Status: " + string(status) + "."
	e.notify(ctx, content.AuthorID, title, message, models.NotificationModerationAction, contentMeta(content))

	return content, nil
}

// GetContent returns a content item, enforcing visibility: hidden content is
// served only to its author and to moderators. Everyone else gets not-found so
// hidden items do not leak their existence.
func (e *Engine) GetContent(requesterID, contentID uuid.UUID) (*models.ContentItem, error) {
	content, err := e.loadContent(contentID)
	if err != nil {
		return nil, err
	}
	if !content.IsHidden || content.AuthorID == requesterID {
		return content, nil
	}

	var user models.User
	if err := e.db.First(&user, "id = ?", requesterID).Error; err == nil {
		if user.Role == "moderator" || user.Role == "admin" {
			return content, nil
		}
	}
	return nil, ErrContentNotFound
}

// ReviewQueue lists content awaiting human attention, newest first.
func (e *Engine) ReviewQueue(limit, offset int) ([]models.ContentItem, int64, error) {
	var items []models.ContentItem
	var total int64

	query := e.db.Model(&models.ContentItem{}).
		Where("moderation_status = ? OR flagged = ?", models.ModerationUnderReview, true)
	query.Count(&total)

	if err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (e *Engine) loadContent(id uuid.UUID) (*models.ContentItem, error) {
	var content models.ContentItem
	if err := e.db.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return &content, nil
}

// applyDecision writes the mapped state to the content row. This is the
// primary state write: failure here fails the whole operation.
func (e *Engine) applyDecision(content *models.ContentItem, risk models.RiskLevel, d Decision) error {
	now := time.Now()
	content.RiskLevel = risk
	content.ModerationStatus = d.Status
	content.IsHidden = d.IsHidden
	content.Flagged = d.Flagged
	content.ModerationReason = d.Reason
	content.ModerationNote = d.Note
	content.ModeratedAt = &now

	result := e.db.Model(&models.ContentItem{}).
		Where("id = ?", content.ID).
		Updates(map[string]interface{}{
			"risk_level":        content.RiskLevel,
			"moderation_status": content.ModerationStatus,
			"is_hidden":         content.IsHidden,
			"flagged":           content.Flagged,
			"moderation_reason": content.ModerationReason,
			"moderation_note":   content.ModerationNote,
			"moderated_at":      content.ModeratedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to persist moderation state: %w", result.Error)
	}
	return nil
}

// notify requests a single notice. Notification writes are auxiliary: a
// failure is logged and swallowed so the primary operation still succeeds.
func (e *Engine) notify(ctx context.Context, userID uuid.UUID, title, message string, typ models.NotificationType, metadata map[string]interface{}) {
	if err := e.notifier.Notify(ctx, userID, title, message, typ, metadata); err != nil {
		slog.Error("notification write failed",
			"action", "notify",
			"user_id", userID.String(),
			"error", err.Error(),
		)
	}
}

func (e *Engine) notifyModerators(ctx context.Context, content *models.ContentItem, risk models.RiskLevel, d Decision, title string) {
	message := fmt.Sprintf("A %s needs review. Status: %s, risk level: %s.", content.Kind, d.Status, risk)
	e.notifyModeratorsRaw(ctx, title, message, contentMeta(content))
}

func (e *Engine) notifyModeratorsRaw(ctx context.Context, title, message string, metadata map[string]interface{}) {
	if err := e.notifier.NotifyModerators(ctx, title, message, models.NotificationModerationAlert, metadata); err != nil {
		slog.Error("moderator notification fan-out failed",
			"action", "notify_moderators",
			"error", err.Error(),
		)
	}
}

func contentMeta(content *models.ContentItem) map[string]interface{} {
	return map[string]interface{}{
		"content_id": content.ID.String(),
		"kind":       string(content.Kind),
		"status":     string(content.ModerationStatus),
	}
}

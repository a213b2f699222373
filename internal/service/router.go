package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/leadrelay/leadrelay/internal/biz/domain"
	"github.com/leadrelay/leadrelay/internal/biz/repo"
	"github.com/leadrelay/leadrelay/internal/biz/usecase"
)

// Router orchestrates the two relay flows: user message into the operator
// group, operator reply back to the user. CRM work is strictly best-effort —
// a CRM outage degrades to diagnostics, never to lost messages.
type Router struct {
	links   repo.LinkRepo
	chat    repo.ChatRepo
	crm     repo.CRMRepo
	threads *usecase.ThreadUsecase
	log     zerolog.Logger
}

// NewRouter creates the message router.
func NewRouter(links repo.LinkRepo, chat repo.ChatRepo, crm repo.CRMRepo, threads *usecase.ThreadUsecase, log zerolog.Logger) *Router {
	return &Router{links: links, chat: chat, crm: crm, threads: threads, log: log}
}

// HandleInbound relays a user's message into the operator group, anchors the
// reply correlation, and syncs the CRM lead. Only transport failures on the
// relay itself (and correlation-store failures) are returned to the caller.
func (r *Router) HandleInbound(ctx context.Context, msg domain.InboundMessage) error {
	threadID, err := r.threads.EnsureThread(ctx, msg.User)
	if err != nil {
		// Degrade to an untopiced relay and tell the operators why.
		r.log.Error().Err(err).Int64("user_id", msg.User.ID).Msg("topic provisioning failed")
		r.notifyOperators(ctx, repo.NoThread,
			fmt.Sprintf("⚠️ Could not create a topic for %s, relaying without one. Check that topics are enabled in this group.", msg.User.DisplayName()))
		threadID = repo.NoThread
	}

	var deliveredID int
	if msg.HasMedia {
		deliveredID, err = r.chat.CopyToGroup(ctx, msg.ChatID, msg.MessageID, threadID)
	} else {
		deliveredID, err = r.chat.SendToGroup(ctx, msg.Text, threadID)
	}
	if err != nil {
		return fmt.Errorf("failed to relay message from user %d: %w", msg.User.ID, err)
	}

	// The reply anchor is written before any CRM work so replies keep
	// working even when the CRM is down.
	if err := r.links.SaveMessageLink(ctx, deliveredID, msg.User.ID); err != nil {
		return fmt.Errorf("failed to link relayed message %d: %w", deliveredID, err)
	}

	r.log.Info().
		Int64("user_id", msg.User.ID).
		Int("thread_id", threadID).
		Int("group_message_id", deliveredID).
		Msg("message relayed")

	r.syncLead(ctx, msg, threadID)
	return nil
}

// syncLead ensures the user has a CRM lead and appends the message as a
// comment. Every failure is reported to operators and swallowed.
func (r *Router) syncLead(ctx context.Context, msg domain.InboundMessage, threadID int) {
	if !r.crm.Enabled() {
		return
	}

	leadID, ok, err := r.links.LeadByUser(ctx, msg.User.ID)
	if err != nil {
		r.log.Error().Err(err).Int64("user_id", msg.User.ID).Msg("lead link lookup failed")
		return
	}

	if !ok {
		leadID, err = r.crm.CreateLead(ctx, msg.User.DisplayName())
		if err != nil {
			r.reportCRMFailure(ctx, threadID, "lead creation", err)
			return
		}
		if err := r.links.SaveLeadLink(ctx, msg.User.ID, leadID); err != nil {
			r.log.Error().Err(err).Int64("user_id", msg.User.ID).Int64("lead_id", leadID).Msg("failed to persist lead link")
			return
		}
		r.log.Info().Int64("user_id", msg.User.ID).Int64("lead_id", leadID).Msg("lead created")
	}

	if err := r.crm.AddComment(ctx, leadID, msg.CommentText()); err != nil {
		r.reportCRMFailure(ctx, threadID, "comment sync", err)
	}
}

// HandleReply routes an operator's reply back to the originating user. A
// reply to a message the store does not know is an expected outcome and only
// produces a diagnostic.
func (r *Router) HandleReply(ctx context.Context, reply domain.OperatorReply) error {
	userID, ok, err := r.links.UserByGroupMessage(ctx, reply.ReplyToMessageID)
	if err != nil {
		return fmt.Errorf("failed to resolve reply target: %w", err)
	}
	if !ok {
		r.log.Warn().Int("reply_to", reply.ReplyToMessageID).Msg("reply to an unlinked message")
		r.notifyOperators(ctx, reply.ThreadID,
			"⚠️ That message is not linked to a user. Reply directly to a relayed message.")
		return nil
	}

	if err := r.chat.SendDM(ctx, userID, reply.Text); err != nil {
		return fmt.Errorf("failed to deliver reply to user %d: %w", userID, err)
	}

	r.log.Info().Int64("user_id", userID).Int("reply_to", reply.ReplyToMessageID).Msg("reply delivered")
	return nil
}

func (r *Router) reportCRMFailure(ctx context.Context, threadID int, op string, err error) {
	r.log.Error().Err(err).Str("operation", op).Msg("crm sync failed")
	r.notifyOperators(ctx, threadID, fmt.Sprintf("⚠️ CRM %s failed: %v", op, err))
}

// notifyOperators posts a diagnostic into the group, best effort.
func (r *Router) notifyOperators(ctx context.Context, threadID int, text string) {
	if _, err := r.chat.SendToGroup(ctx, text, threadID); err != nil {
		r.log.Error().Err(err).Msg("failed to post operator diagnostic")
	}
}

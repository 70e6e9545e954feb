package bancho

import (
	"context"
	"fmt"
	"time"

	"github.com/onecho-dev/onecho/internal/bancho/clientpackets"
	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/packet"
)

// handleFriendAdd persists a friend relation. The bot is everyone's
// implicit friend and is silently rejected; an existing block on the
// target is cleared first.
func (h *Handler) handleFriendAdd(ctx context.Context, r *packet.Reader, s *Session) error {
	targetID, err := clientpackets.ParseUserID(r)
	if err != nil {
		return err
	}
	if targetID == model.BotID || targetID == s.ID() {
		return nil
	}
	if s.IsFriend(targetID) {
		return nil
	}

	if s.HasBlocked(targetID) {
		if err := h.st.Relations.Delete(ctx, s.ID(), targetID, model.RelationBlock); err != nil {
			return fmt.Errorf("clearing block on %d: %w", targetID, err)
		}
		s.RemoveBlock(targetID)
	}

	rel := model.Relationship{
		UserID:   s.ID(),
		TargetID: targetID,
		Relation: model.RelationFriend,
		Since:    time.Now(),
	}
	if err := h.st.Relations.Upsert(ctx, rel); err != nil {
		return fmt.Errorf("persisting friendship with %d: %w", targetID, err)
	}
	s.AddFriend(targetID)
	return nil
}

// handleFriendRemove deletes a friend relation. The bot cannot be
// unfriended.
func (h *Handler) handleFriendRemove(ctx context.Context, r *packet.Reader, s *Session) error {
	targetID, err := clientpackets.ParseUserID(r)
	if err != nil {
		return err
	}
	if targetID == model.BotID || targetID == s.ID() {
		return nil
	}
	if !s.IsFriend(targetID) {
		return nil
	}

	if err := h.st.Relations.Delete(ctx, s.ID(), targetID, model.RelationFriend); err != nil {
		return fmt.Errorf("removing friendship with %d: %w", targetID, err)
	}
	s.RemoveFriend(targetID)
	return nil
}

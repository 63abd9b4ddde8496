package socket

// Broadcaster provides high-level methods for broadcasting portal events.
// Every mutation on leads, messages and projects fans out through one of
// these so all open portal views converge on the latest state.
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Lead Broadcasting
// ============================================

func (b *Broadcaster) BroadcastLeadCreated(lead map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageLeadCreated, lead, excludeUserID)
}

func (b *Broadcaster) BroadcastLeadUpdated(lead map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageLeadUpdated, lead, excludeUserID)
}

// BroadcastLeadStageChanged announces a pipeline move. Concurrent movers
// reconcile through this event: the board re-renders on the next snapshot.
func (b *Broadcaster) BroadcastLeadStageChanged(leadID, oldStage, newStage string, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageLeadStageChanged, map[string]interface{}{
		"leadId":   leadID,
		"oldStage": oldStage,
		"newStage": newStage,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastLeadConverted(leadID, projectID string, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageLeadConverted, map[string]interface{}{
		"leadId":    leadID,
		"projectId": projectID,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastLeadDeleted(leadID string, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageLeadDeleted, map[string]interface{}{
		"leadId": leadID,
	}, excludeUserID)
}

// BroadcastLeadStale flags a lead nobody has touched in a while so the
// board can surface a follow-up nudge.
func (b *Broadcaster) BroadcastLeadStale(leadID, name string, lastUpdate string) {
	b.hub.SendToRoom(RoomPortal, MessageLeadStale, map[string]interface{}{
		"leadId":      leadID,
		"name":        name,
		"lastUpdated": lastUpdate,
	}, "")
}

// ============================================
// Inbox Broadcasting
// ============================================

func (b *Broadcaster) BroadcastMessageCreated(msg map[string]interface{}) {
	// Intake is anonymous; nobody is excluded.
	b.hub.SendToRoom(RoomPortal, MessageInboxCreated, msg, "")
}

func (b *Broadcaster) BroadcastMessageRead(messageID, threadID string, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageInboxRead, map[string]interface{}{
		"messageId": messageID,
		"threadId":  threadID,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastMessageStatusChanged(messageID, threadID, status string, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageInboxStatus, map[string]interface{}{
		"messageId": messageID,
		"threadId":  threadID,
		"status":    status,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastMessageConverted(messageID, threadID, projectID string, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageInboxConverted, map[string]interface{}{
		"messageId": messageID,
		"threadId":  threadID,
		"projectId": projectID,
	}, excludeUserID)
}

// ============================================
// Project Broadcasting
// ============================================

func (b *Broadcaster) BroadcastProjectCreated(project map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageProjectCreated, project, excludeUserID)
}

func (b *Broadcaster) BroadcastProjectUpdated(project map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageProjectUpdated, project, excludeUserID)
}

func (b *Broadcaster) BroadcastProjectDeleted(projectID string, excludeUserID string) {
	b.hub.SendToRoom(RoomPortal, MessageProjectDeleted, map[string]interface{}{
		"projectId": projectID,
	}, excludeUserID)
}

// ============================================
// Billing Broadcasting
// ============================================

// SendSubscriptionUpdated notifies one user that their subscription state
// changed (webhook-driven).
func (b *Broadcaster) SendSubscriptionUpdated(userID string, sub map[string]interface{}) {
	b.hub.SendToUser(userID, MessageSubscriptionUpdated, sub)
}

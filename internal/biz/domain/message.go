package domain

// InboundMessage is a message received from a user's private chat.
type InboundMessage struct {
	User      User
	ChatID    int64 // private chat the message arrived in
	MessageID int   // platform-assigned id within that chat
	Text      string
	Caption   string // caption of a media message, if any
	HasMedia  bool   // anything that is not plain text: photo, voice, document, ...
}

// CommentText is the text recorded on the user's CRM lead. Media messages
// contribute their caption when present, a fixed placeholder otherwise.
func (m InboundMessage) CommentText() string {
	if m.Text != "" {
		return m.Text
	}
	if m.Caption != "" {
		return m.Caption
	}
	return "[media message]"
}

// OperatorReply is a message posted in the operator group in reply to a
// previously relayed message.
type OperatorReply struct {
	ReplyToMessageID int // group message id the operator replied to
	ThreadID         int // topic the reply was posted in, repo.NoThread if none
	Text             string
}

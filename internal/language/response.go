package language

// ResponseGroup buckets intent responses by the clients that can render
// them. The set is closed.
type ResponseGroup string

const (
	// GroupDefault holds plain-text-safe responses, usable by voice
	// assistants and notifications.
	GroupDefault ResponseGroup = "default"
	// GroupRich holds responses for clients that render rich content.
	GroupRich ResponseGroup = "rich"
)

// ResponseGroups lists every response group.
var ResponseGroups = []ResponseGroup{GroupDefault, GroupRich}

// ParseResponseGroup converts a document key into a ResponseGroup.
func ParseResponseGroup(s string) (ResponseGroup, error) {
	switch ResponseGroup(s) {
	case GroupDefault, GroupRich:
		return ResponseGroup(s), nil
	}
	return "", &UnsupportedResponseGroupError{Group: s}
}

// ResponseKind is the key that introduces a response record in a language
// document.
type ResponseKind string

const (
	KindText          ResponseKind = "text"
	KindQuickReplies  ResponseKind = "quick_replies"
	KindImage         ResponseKind = "image"
	KindCard          ResponseKind = "card"
	KindCustomPayload ResponseKind = "custom"
)

var responseKinds = []ResponseKind{KindText, KindQuickReplies, KindImage, KindCard, KindCustomPayload}

// defaultGroupKinds are the only kinds accepted in GroupDefault.
var defaultGroupKinds = []ResponseKind{KindText, KindCustomPayload}

// Allows reports whether responses of kind k may be placed in group g.
func (g ResponseGroup) Allows(k ResponseKind) bool {
	if g != GroupDefault {
		return true
	}
	for _, allowed := range defaultGroupKinds {
		if k == allowed {
			return true
		}
	}
	return false
}

// IntentResponse is one response an agent may send when an intent is
// matched. The concrete types are TextResponse, QuickRepliesResponse,
// ImageResponse, CardResponse and CustomPayloadResponse.
type IntentResponse interface {
	Kind() ResponseKind
}

// TextResponse is a plain text response. The response actually sent is
// picked among Choices.
type TextResponse struct {
	Choices []string `json:"choices"`
}

// QuickRepliesResponse is a set of reply chips, each at most
// QuickReplyLimit characters long.
type QuickRepliesResponse struct {
	Replies []string `json:"replies"`
}

// ImageResponse is an image with an optional title.
type ImageResponse struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// CardResponse is a content card.
type CardResponse struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
	Link     string `json:"link,omitempty"`
}

// CustomPayloadResponse is a free-form payload identified by Name.
type CustomPayloadResponse struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload"`
}

func (TextResponse) Kind() ResponseKind          { return KindText }
func (QuickRepliesResponse) Kind() ResponseKind  { return KindQuickReplies }
func (ImageResponse) Kind() ResponseKind         { return KindImage }
func (CardResponse) Kind() ResponseKind          { return KindCard }
func (CustomPayloadResponse) Kind() ResponseKind { return KindCustomPayload }

// NewQuickRepliesResponse builds a QuickRepliesResponse, enforcing the reply
// length limit.
func NewQuickRepliesResponse(replies []string) (QuickRepliesResponse, error) {
	for _, r := range replies {
		if n := len([]rune(r)); n > QuickReplyLimit {
			return QuickRepliesResponse{}, &QuickReplyTooLongError{Reply: r, Length: n}
		}
	}
	return QuickRepliesResponse{Replies: replies}, nil
}

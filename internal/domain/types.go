package domain

// Position is the card's location on the wall, written only by the drag
// layer. A zero Position means "use the default layout slot".
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Photo is one captured instant image and its card state.
type Photo struct {
	ID         string   `json:"id"`
	StorageKey string   `json:"-"`
	MimeType   string   `json:"mimeType"`
	Caption    string   `json:"caption"`
	CapturedAt string   `json:"capturedAt"`
	Developing bool     `json:"isDeveloping"`
	Position   Position `json:"position"`
	Rotation   float64  `json:"rotation"`
	StackOrder int64    `json:"stackOrder"`
}

// AISettings is the caption endpoint configuration. An empty APIKey means
// AI captioning is disabled. The JSON tags double as the persisted format.
type AISettings struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

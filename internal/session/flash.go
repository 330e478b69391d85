package session

const flashKey = "_flashes"

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash queues a notice to be shown on the next rendered page.
func AddFlash(v Values, category, message string) {
	var flashes []Flash
	v.Load(flashKey, &flashes)
	flashes = append(flashes, Flash{Category: category, Message: message})
	// A slice of plain structs always encodes.
	_ = v.Store(flashKey, flashes)
}

// Flashes returns and removes the queued notices.
func Flashes(v Values) []Flash {
	var flashes []Flash
	if !v.Load(flashKey, &flashes) {
		return nil
	}
	v.Delete(flashKey)
	return flashes
}

package csvio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"trade-journal/internal/models"
)

// BackupVersion is the format version written to and accepted from backups.
const BackupVersion = "1.0"

// Backup is the JSON export of an account's journal and settings.
type Backup struct {
	Version  string     `json:"version"`
	Exported time.Time  `json:"exported"`
	Data     BackupData `json:"data"`
}

// BackupData holds the exported trades and account settings.
type BackupData struct {
	Trades          []models.Trade `json:"trades"`
	AccountSize     float64        `json:"accountSize"`
	RiskPerTrade    float64        `json:"riskPerTrade"`
	AccountCurrency string         `json:"accountCurrency"`
	Leverage        int            `json:"leverage"`
}

// NewBackup builds a backup of trades. Owner IDs are stripped so a backup
// can be restored under another owner.
func NewBackup(trades []models.Trade, data BackupData, now time.Time) Backup {
	data.Trades = make([]models.Trade, len(trades))
	for i, t := range trades {
		t.OwnerID = ""
		data.Trades[i] = t
	}
	return Backup{Version: BackupVersion, Exported: now.UTC(), Data: data}
}

// WriteBackup encodes b as indented JSON.
func WriteBackup(w io.Writer, b Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup written by WriteBackup.
func ReadBackup(r io.Reader) (Backup, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Backup{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if b.Version != BackupVersion {
		return Backup{}, fmt.Errorf("unsupported backup version %q", b.Version)
	}
	return b, nil
}

// BackupFileName returns the dated name of a JSON backup.
func BackupFileName(now time.Time) string {
	return "trading-journal-" + now.Format(dateLayout) + ".json"
}

package render

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatEther renders wei as "<n> ETH"
func FormatEther(wei *big.Int) string {
	return domain.FormatEther(wei) + " ETH"
}

// FormatVerification renders a verification status, e.g. "Verified"
func FormatVerification(status models.VerificationStatus) string {
	if status == "" {
		status = models.VerificationStatusUnverified
	}
	label := titleCaser.String(strings.ToLower(string(status)))
	switch status {
	case models.VerificationStatusVerified:
		return verifiedStyle.Sprint(label)
	case models.VerificationStatusPending:
		return pendingStyle.Sprint(label)
	case models.VerificationStatusFailed:
		return notVerifiedStyle.Sprint(label)
	default:
		return timestampStyle.Sprint(label)
	}
}

func formatAddress(addr common.Address) string {
	return addressStyle.Sprint(addr.Hex())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return timestampStyle.Sprint(t.Local().Format("2006-01-02 15:04:05"))
}

func shortHash(hash string) string {
	if len(hash) <= 18 {
		return hash
	}
	return hash[:10] + "…" + hash[len(hash)-6:]
}

package bootstrap

import (
	"fmt"

	appconfig "github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/config"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/notify"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// BuildEmailSender selects the sender named by EMAIL_PROVIDER. The SES client
// is only consulted for the ses provider. A provider missing its credentials
// is a startup error rather than a silent fallback.
func BuildEmailSender(cfg *appconfig.Config, ses notify.SESAPI, logger *logging.Logger) (notify.EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "", appconfig.EmailProviderStub:
		logger.Info("email provider: stub")
		return notify.NewStubEmailSender(logger), nil
	case appconfig.EmailProviderSendGrid:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: SENDGRID_API_KEY is required for the sendgrid provider")
		}
		logger.Info("email provider: sendgrid")
		return sender, nil
	case appconfig.EmailProviderSES:
		sender := notify.NewSESSender(ses, notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: ses client is required for the ses provider")
		}
		logger.Info("email provider: ses", "region", cfg.AWSRegion)
		return sender, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown email provider %q", cfg.EmailProvider)
	}
}

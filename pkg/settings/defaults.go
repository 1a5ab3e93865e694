package settings

import (
	"fmt"
	"veronikaextra-backend/domain"
)

const termsTemplate = `<h1>Terms of Service</h1>
<p>By using <strong>%[1]s</strong> you agree to these terms.</p>
<h3>Credits and Payments</h3>
<ul>
<li>New users on unique devices receive %[2]d free credits with no cash value.</li>
<li>Credits can be purchased through UPI (Cashfree) or cryptocurrency (OXPAY).</li>
<li>Each generated image costs %[3]d credits. Purchases are final; credits for failed generations are returned automatically.</li>
</ul>
<h3>Acceptable Use</h3>
<p>Do not generate unlawful, infringing or abusive content. Accounts that do will be removed.</p>
<h3>Contact</h3>
<p><a href="mailto:%[4]s">%[4]s</a></p>`

const privacyTemplate = `<h1>Privacy Policy</h1>
<p><strong>%[1]s</strong> collects your name, email address, country and a device identifier used to prevent free-credit abuse. Passwords are stored only as hashes.</p>
<h3>Images</h3>
<p>Generated images and prompts are not stored on our servers and are never used for training.</p>
<h3>Payments</h3>
<p>Payments are processed by Cashfree and OXPAY. We never see card, UPI or wallet credentials.</p>
<h3>Contact</h3>
<p><a href="mailto:%[2]s">%[2]s</a></p>`

func DefaultLegalContent(imageCost, initialCredits int) domain.LegalContent {
	return domain.LegalContent{
		Terms:   fmt.Sprintf(termsTemplate, domain.BrandName, initialCredits, imageCost, domain.DefaultContactEmail),
		Privacy: fmt.Sprintf(privacyTemplate, domain.BrandName, domain.DefaultContactEmail),
	}
}

func defaultValues(imageCost, initialCredits int) map[string]any {
	return map[string]any{
		domain.SettingGlobalNotice:      "",
		domain.SettingCreditsPageNotice: "",
		domain.SettingExchangeRate:      domain.DefaultExchangeRate,
		domain.SettingContactInfo:       domain.ContactInfo{Email1: domain.DefaultContactEmail},
		domain.SettingSocialLinks:       domain.SocialLinks{},
		domain.SettingLegalContent:      DefaultLegalContent(imageCost, initialCredits),
		domain.SettingPaymentInfo:       domain.PaymentInfo{UpiID: domain.DefaultUpiID},
	}
}

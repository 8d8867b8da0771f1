package ai

// Canned replies per intent per language. The inbound pipeline prefers a
// database template when one exists; these are the built-in defaults.
var replies = map[string]map[string]string{
	IntentGreeting: {
		"en": "Hi! I'm the Agent Flow assistant. Ask me about AI automation, pricing, or booking a demo.",
		"he": "היי! אני העוזר של Agent Flow. אפשר לשאול אותי על אוטומציה, מחירים או תיאום דמו.",
	},
	IntentPricing: {
		"en": "Our automation projects start from a free assessment call — we'll map your processes and send a tailored quote. Want me to set one up?",
		"he": "הפרויקטים שלנו מתחילים בשיחת אבחון ללא עלות — נמפה את התהליכים ונשלח הצעת מחיר מותאמת. לתאם שיחה?",
	},
	IntentServices: {
		"en": "We build AI chatbots, workflow automation, and system integrations for growing businesses. Which area interests you?",
		"he": "אנחנו בונים צ'אטבוטים, אוטומציה של תהליכים ואינטגרציות בין מערכות. איזה תחום מעניין אותך?",
	},
	IntentScheduling: {
		"en": "Happy to set up a call. Reply with a day and time that works for you and we'll confirm.",
		"he": "נשמח לקבוע שיחה. כתבו יום ושעה שנוחים לכם ונאשר.",
	},
	IntentHuman: {
		"en": "I'm connecting you with a member of our team — they'll reply here shortly.",
		"he": "מעביר אתכם לנציג מהצוות — הוא יחזור אליכם כאן בהקדם.",
	},
	IntentFarewell: {
		"en": "Thanks for reaching out! We're here whenever you need us.",
		"he": "תודה שפניתם אלינו! אנחנו כאן בשבילכם.",
	},
	IntentUnknown: {
		"en": "Thanks for your message! A member of our team will get back to you soon. You can also ask about our services, pricing, or booking a demo.",
		"he": "תודה על ההודעה! נציג מהצוות יחזור אליכם בקרוב. אפשר גם לשאול על השירותים, המחירים או תיאום דמו.",
	},
}

// Reply picks the canned response for the analysis, falling back to english
// and then to the unknown-intent text.
func Reply(a Analysis) string {
	byLang, ok := replies[a.Intent]
	if !ok {
		byLang = replies[IntentUnknown]
	}
	if r, ok := byLang[a.Language]; ok {
		return r
	}
	return byLang["en"]
}

package chatbot

// SeedCorpus is the built-in FAQ corpus, used when no external corpus source
// is configured. The ordering is stable: index positions are part of the
// resolved answers' identity for the process lifetime.
func SeedCorpus() []Entry {
	return []Entry{
		{
			Question: "How do I book a temple visit?",
			Answer:   "Go to the Temples page, select your preferred temple, and click Book Now. Choose your date, time slot, and number of visitors. After confirming, you'll receive a QR code E-Pass.",
		},
		{
			Question: "How many visitors can I book for?",
			Answer:   "You can book for up to 10 visitors in a single booking. For larger groups, please make multiple bookings or contact the temple administration.",
		},
		{
			Question: "Is booking free?",
			Answer:   "Yes, the E-Pass booking service is completely free. Some temples may have separate fees for special darshans which are payable at the temple.",
		},
		{
			Question: "How does the QR code E-Pass work?",
			Answer:   "After booking, you receive a unique QR code. Show this QR code at the temple entrance, where the gatekeeper will scan it to verify your booking and record your entry.",
		},
		{
			Question: "What if my QR code doesn't scan?",
			Answer:   "The gatekeeper can manually enter your Pass ID. Make sure your screen brightness is high and the QR code is clearly visible.",
		},
		{
			Question: "How do I cancel my booking?",
			Answer:   "Go to your Dashboard, find the booking you want to cancel, and click the cancel option. Cancellations are free up to 24 hours before your scheduled time.",
		},
		{
			Question: "What happens if I miss my time slot?",
			Answer:   "If you miss your time slot, your E-Pass expires. You'll need to book a new slot. Frequent no-shows may affect your future booking privileges.",
		},
		{
			Question: "What are the temple timings?",
			Answer:   "Most temples are open from 6 AM to 10 PM with a midday break. Check the specific temple page for exact darshan timings.",
		},
		{
			Question: "What should I wear to the temple?",
			Answer:   "Most temples require modest clothing. Avoid shorts, sleeveless tops, and revealing clothes. Some temples provide cloth wraps at the entrance.",
		},
		{
			Question: "What items are not allowed inside?",
			Answer:   "Commonly restricted items: leather goods, mobile phones in the sanctum, cameras, food, tobacco, and alcohol. Check specific temple rules before visiting.",
		},
		{
			Question: "How do I check the current crowd level?",
			Answer:   "Visit the Live Status page to see real-time crowd levels for all temples. Green means low, orange means moderate, and red means high crowd.",
		},
		{
			Question: "How early should I arrive?",
			Answer:   "We recommend arriving 15 to 30 minutes before your slot time. This allows for security checks, depositing bags, and other formalities.",
		},
	}
}

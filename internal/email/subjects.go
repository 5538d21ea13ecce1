package email

const (
	subjectTicketCreatedFmt       = "New support ticket: %s"
	subjectTicketStatusChangedFmt = "Ticket %s is now %s"
	subjectWelcome                = "Welcome to the support portal"
)

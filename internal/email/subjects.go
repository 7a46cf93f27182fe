package email

const (
	subjectAppointmentReminderFmt = "Reminder: your %s appointment"
	subjectReengagement           = "We'd love to see you again"
)

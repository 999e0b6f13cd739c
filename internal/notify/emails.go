package notify

import "fmt"

// Mailer builds the academy's transactional messages and hands them to the
// queue. Every method is fire-and-forget.
type Mailer struct {
	queue        *Queue
	appBaseURL   string
	contactInbox string
}

func NewMailer(queue *Queue, appBaseURL, contactInbox string) *Mailer {
	return &Mailer{queue: queue, appBaseURL: appBaseURL, contactInbox: contactInbox}
}

// DemoReceived acknowledges a new booking to the parent.
func (m *Mailer) DemoReceived(parentEmail, parentName, studentName string) {
	m.queue.Enqueue(Message{
		Kind:    KindDemoReceived,
		To:      parentEmail,
		ToName:  parentName,
		Subject: "We received your demo class request",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nThanks for booking a free demo chess class for %s. "+
				"Our team will reach out shortly to schedule it.\n", parentName, studentName),
	})
}

// PaymentLink points the parent at the plan-selection page after a demo went
// well.
func (m *Mailer) PaymentLink(parentEmail, parentName, demoID string) {
	m.queue.Enqueue(Message{
		Kind:    KindPaymentLink,
		To:      parentEmail,
		ToName:  parentName,
		Subject: "Complete your enrollment",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nGreat news — pick a plan and submit your payment here:\n%s/enroll/%s\n",
			parentName, m.appBaseURL, demoID),
	})
}

// Welcome confirms a finished conversion.
func (m *Mailer) Welcome(parentEmail, parentName, studentName, accountID string) {
	m.queue.Enqueue(Message{
		Kind:    KindWelcome,
		To:      parentEmail,
		ToName:  parentName,
		Subject: "Welcome to the academy!",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\n%s is now enrolled. Your account id is %s — "+
				"log in at %s to see the class schedule.\n",
			parentName, studentName, accountID, m.appBaseURL),
	})
}

// ContactRelay forwards a contact-form submission to the academy inbox.
func (m *Mailer) ContactRelay(name, email, phone, message string) {
	m.queue.Enqueue(Message{
		Kind:    KindContactRelay,
		To:      m.contactInbox,
		Subject: "New contact inquiry from " + name,
		TextBody: fmt.Sprintf(
			"Name: %s\nEmail: %s\nPhone: %s\n\n%s\n", name, email, phone, message),
	})
}

// CoachCredentials invites an approved coach to set their password. The
// temporary password stays server-side; only the one-time setup link ships.
func (m *Mailer) CoachCredentials(coachEmail, coachName, setupToken string) {
	m.queue.Enqueue(Message{
		Kind:    KindCoachCredentials,
		To:      coachEmail,
		ToName:  coachName,
		Subject: "Your coach account is ready",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nYour application was approved. Set your password within "+
				"48 hours using this link:\n%s/set-password?token=%s\n",
			coachName, m.appBaseURL, setupToken),
	})
}

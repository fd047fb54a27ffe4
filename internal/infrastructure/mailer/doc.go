// Package mailer delivers transactional emails over SMTP
package mailer

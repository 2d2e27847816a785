package email

// BaseTemplate wraps every email body
const BaseTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: -apple-system, Arial, sans-serif; color: #1a1a1a; margin: 0; }
    .container { max-width: 560px; margin: 0 auto; padding: 24px; }
    .header { font-size: 20px; font-weight: 600; margin-bottom: 16px; }
    .footer { margin-top: 32px; font-size: 12px; color: #8a8a8a; }
  </style>
</head>
<body>
  <div class="container">
    {{.Body}}
    <div class="footer">BarberQueue — your barbershop, booked.</div>
  </div>
</body>
</html>`

// WelcomeTemplate greets a newly registered client
const WelcomeTemplate = `
<div class="header">Welcome to BarberQueue, {{.Name}}!</div>
<p>Your account is ready. Browse branches, pick a barber and book your first visit.</p>`

// BookingCreatedTemplate confirms a new booking request
const BookingCreatedTemplate = `
<div class="header">Booking received</div>
<p>Hi {{.Name}}, we got your booking at {{.BranchName}} for {{.StartAt}}.</p>
<p>You'll get another email once the barber confirms it.</p>`

// BookingConfirmedTemplate notifies the client of confirmation
const BookingConfirmedTemplate = `
<div class="header">Booking confirmed</div>
<p>Hi {{.Name}}, your booking at {{.BranchName}} on {{.StartAt}} is confirmed.</p>
<p>Total: {{.TotalPrice}} for {{.TotalDuration}} minutes.</p>`

// BookingCancelledTemplate notifies the client of cancellation
const BookingCancelledTemplate = `
<div class="header">Booking cancelled</div>
<p>Hi {{.Name}}, your booking at {{.BranchName}} on {{.StartAt}} was cancelled.</p>
<p>You can book a new slot any time.</p>`

// BookingCompletedTemplate thanks the client after a visit
const BookingCompletedTemplate = `
<div class="header">Thanks for your visit</div>
<p>Hi {{.Name}}, hope you enjoyed your visit to {{.BranchName}}.</p>
<p>Leave a review to help other clients pick their barber.</p>`

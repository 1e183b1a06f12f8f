package templates

var defaultOrder = []string{IDIssueNote, IDFollowUp, IDQuickIR}

const issueNoteHTML = `<p><strong><u>ISSUE</u></strong> </p><p><br></p><p><strong><u>App Details:</u></strong></p><ul><li><strong>App Name: </strong>{site}</li><li><strong>Subscription: </strong>{subscription}</li><li><strong>Resource Group: </strong>{resourceGroup}</li><li><strong>Issue Time (UTC): </strong>{date}</li><li><strong>Applens: </strong>{applens}</li><li><strong>Observer: </strong>{observer}</li><li><strong>ASC: </strong>{asc}</li></ul><p><br></p><p><strong><u>Troubleshooting:</u></strong> </p><p><br></p><p><br></p><p> </p>`

const followUpHTML = `<p><strong><u>Status ({date})</u></strong> </p><p><br></p><p><br></p><p><strong><u>Next Action:</u></strong> </p><p><br></p><p><br></p><p><strong><u>Next Follow-up Date: ({next_followup_date})</u></strong> </p><p><br></p><p><br></p><p><strong>_____________________________________________</strong></p>`

const quickIRHTML = `<p>Hello **CUSTOMER NAME**, </p><p><br></p><p>Hope you are doing well! </p><p><br></p><p>Thank you for contacting Microsoft Support. My name is **YOUR NAME** and I'm from Azure App services team. I am the Support Professional who will be working with you on this Service Request #{caseNumber}. </p><p><br></p><p>I understand that ****cx issue****. Kindly share your availability for a call to discuss the issue further on a screen sharing session. Please let me know your time zone and the best time to reach you. </p><p><br></p><p>Looking forward to hearing back from you. </p><p><br></p><p>Thank you.</p>`

// Defaults returns the seeded default templates.
func Defaults() Snapshot {
	return Snapshot{
		IDIssueNote: {ID: IDIssueNote, Name: "FQR Note", IsDefault: true, Template: issueNoteHTML},
		IDFollowUp:  {ID: IDFollowUp, Name: "Follow-up Note", IsDefault: true, Template: followUpHTML},
		IDQuickIR:   {ID: IDQuickIR, Name: "Quick IR Email", IsDefault: true, Template: quickIRHTML},
	}
}

package email

const subjectRosterExport = "People roster export"

package uidoc

// pictoNames lists the built-in pictograms available to screens
var pictoNames = []string{
	"1downarrow", "1uparrow", "1leftarrow", "1rightarrow",
	"1uparrow_selected", "1downarrow_selected", "1leftarrow_selected", "1rightarrow_selected",
	"accountancy", "accounting_account", "account", "accountline", "action", "add", "address",
	"angle-double-down", "angle-double-up", "asset",
	"bank_account", "barcode", "bank", "bell", "bill", "billa", "billr", "billd", "birthday-cake",
	"bom", "bookcal", "bookmark", "briefcase-medical", "bug", "building",
	"calendar", "calendarmonth", "calendarweek", "calendarday", "calendarperuser", "calculator",
	"cash-register", "category", "chart", "check", "clock", "clone", "close_title", "code", "cog",
	"collab", "company", "contact", "country", "contract", "conversation", "cron", "cross", "cubes",
	"check-circle", "check-square", "circle", "stop-circle", "currency", "multicurrency",
	"chevron-left", "chevron-right", "chevron-down", "chevron-up",
	"delete", "dolly", "dollyrevert", "donation", "download", "dynamicprice",
	"edit", "ellipsis-h", "email", "entity", "envelope", "eraser", "establishment", "expensereport",
	"external-link-alt", "external-link-square-alt", "eye",
	"filter", "file", "file-o", "file-code", "file-export", "file-import", "file-upload",
	"folder", "folder-open", "folder-plus", "font",
	"gears", "generate", "generic", "globe", "globe-americas", "graph", "grip", "grip_title", "group",
	"hands-helping", "help", "holiday", "hourglass",
	"images", "incoterm", "info", "info_black", "intervention", "inventory", "intracommreport",
	"jobprofile", "key", "knowledgemanagement",
	"label", "language", "layout", "line", "link", "list", "list-alt", "listlight", "loan", "lock", "lot",
	"long-arrow-alt-right",
	"margin", "map-marker-alt", "member", "meeting", "minus", "money-bill-alt", "movement", "mrp",
	"note", "next", "off", "on", "order",
	"paragraph", "play", "pdf", "phone", "phoning", "phoning_mobile", "phoning_fax", "playdisabled",
	"previous", "poll", "pos", "printer", "product", "propal", "proposal", "puce",
	"resize", "service", "stats", "stock", "supplier_invoice", "supplier_order", "supplier_proposal",
	"technic", "timespent", "title_setup", "title_accountancy", "title_bank", "title_hrm", "title_agenda",
	"trip", "uncheck", "url", "user-cog", "user-injured", "user-md", "vat",
	"website", "workstation", "webhook", "world", "private",
	"conferenceorbooth", "eventorganization", "stamp", "signature",
}

// PictoNames returns a copy of the built-in pictogram names
func PictoNames() []string {
	return append([]string(nil), pictoNames...)
}

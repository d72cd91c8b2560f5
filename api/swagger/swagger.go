package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "College Admin API",
        "description": "Student ledger, fee reconciliation and campus administration backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Login, token refresh and password management"},
        {"name": "Students", "description": "Student records and fee profiles"},
        {"name": "Fees", "description": "Payments, waivers and government fee rates"},
        {"name": "Promotion", "description": "Eligibility evaluation and year advancement"},
        {"name": "Reconciliation", "description": "Ledger repair and counter resync"},
        {"name": "Hostel", "description": "Hostel fee lifecycle"},
        {"name": "Placement", "description": "Placement fee assignment and statistics"},
        {"name": "Library", "description": "Book loans and returns"},
        {"name": "Notifications", "description": "Exam notifications"},
        {"name": "Analytics", "description": "Dashboards, fee analytics and audit trail"},
        {"name": "Exports", "description": "CSV and PDF downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue a token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unknown or rotated token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the presented refresh token",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current token claims",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Reset a user's password and revoke their sessions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResetPasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Admit a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate USN"}
                }
            }
        },
        "/students/me": {
            "get": {
                "tags": ["Students"],
                "summary": "Authenticated student's own record",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{usn}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student by USN",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/students/{usn}/fees": {
            "patch": {
                "tags": ["Students"],
                "summary": "Update a student's fee profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateFeeProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{usn}/eligibility-override": {
            "put": {
                "tags": ["Students"],
                "summary": "Set or clear the exam eligibility override",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EligibilityOverrideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fees/payments": {
            "post": {
                "tags": ["Fees"],
                "summary": "Record a fee payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No open record for the category"}
                }
            }
        },
        "/fees/mark-paid": {
            "post": {
                "tags": ["Fees"],
                "summary": "Force-settle a fee category",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkPaidRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fees/government": {
            "put": {
                "tags": ["Fees"],
                "summary": "Update the government-quota annual fee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GovernmentFeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/promotion/{usn}/evaluate": {
            "get": {
                "tags": ["Promotion"],
                "summary": "Evaluate promotion eligibility",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/promotion/{usn}": {
            "post": {
                "tags": ["Promotion"],
                "summary": "Promote a single student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Ineligible"}
                }
            }
        },
        "/promotion/year/{year}": {
            "post": {
                "tags": ["Promotion"],
                "summary": "Promote an entire year cohort",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reconciliation": {
            "post": {
                "tags": ["Reconciliation"],
                "summary": "Enqueue reconciliation for all active students",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reconciliation/{usn}": {
            "post": {
                "tags": ["Reconciliation"],
                "summary": "Reconcile a single student's ledger",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hostel/fees": {
            "post": {
                "tags": ["Hostel"],
                "summary": "Assign the annual hostel fee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HostelFeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hostel/payments": {
            "post": {
                "tags": ["Hostel"],
                "summary": "Record a hostel fee payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hostel/{usn}": {
            "get": {
                "tags": ["Hostel"],
                "summary": "Hostel status for a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Hostel"],
                "summary": "Disable hostel for a student, keeping history",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placement/fees": {
            "post": {
                "tags": ["Placement"],
                "summary": "Bulk-assign placement fees to a year cohort",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlacementAssignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placement/payments": {
            "post": {
                "tags": ["Placement"],
                "summary": "Record a placement fee payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placement/stats": {
            "get": {
                "tags": ["Placement"],
                "summary": "Placement statistics",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/library/loans": {
            "post": {
                "tags": ["Library"],
                "summary": "Issue a book",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IssueBookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/library/loans/{id}/return": {
            "post": {
                "tags": ["Library"],
                "summary": "Return a book",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReturnBookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already returned"}
                }
            }
        },
        "/library/students/{usn}": {
            "get": {
                "tags": ["Library"],
                "summary": "Loan history for a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/library/my-books": {
            "get": {
                "tags": ["Library"],
                "summary": "Authenticated student's outstanding loans",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/library/unreturned": {
            "get": {
                "tags": ["Library"],
                "summary": "All unreturned loans",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List all notifications",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "is_active", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Notifications"],
                "summary": "Publish an exam notification",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExamNotificationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{id}": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Update an exam notification",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExamNotificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Notifications"],
                "summary": "Delete an exam notification",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/notifications/visible": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Notifications visible to the authenticated student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/dashboard": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Student population summary",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/fees": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Fee collection analytics",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "fee_type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/system": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Process metrics snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/audit": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Recent audit entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "resource", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/due-list": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the outstanding-dues CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "department", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV attachment"}
                }
            }
        },
        "/exports/receipts/{usn}/{record_id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a fee payment receipt PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "usn", "in": "path", "required": true, "type": "string"},
                    {"name": "record_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF attachment"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "ResetPasswordRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["username", "new_password"]
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "usn": {"type": "string"},
                "full_name": {"type": "string"},
                "department": {"type": "string"},
                "quota": {"type": "string", "enum": ["government", "management"]},
                "entry": {"type": "string", "enum": ["regular", "lateral"]},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "annual_college_fee": {"type": "integer"},
                "transport_opted": {"type": "boolean"},
                "annual_transport_fee": {"type": "integer"},
                "hostel_opted": {"type": "boolean"},
                "annual_hostel_fee": {"type": "integer"}
            },
            "required": ["usn", "full_name", "department", "quota", "entry", "password"]
        },
        "UpdateFeeProfileRequest": {
            "type": "object",
            "properties": {
                "college_fee_due": {"type": "integer"},
                "transport_fee_due": {"type": "integer"},
                "hostel_fee_due": {"type": "integer"},
                "placement_fee_due": {"type": "integer"},
                "last_sem_dues": {"type": "integer"},
                "reference": {"type": "string"}
            }
        },
        "EligibilityOverrideRequest": {
            "type": "object",
            "properties": {
                "override": {"type": "boolean"}
            }
        },
        "PaymentRequest": {
            "type": "object",
            "properties": {
                "usn": {"type": "string"},
                "record_id": {"type": "string"},
                "fee_type": {"type": "string", "enum": ["college", "transport", "hostel", "placement", "other"]},
                "year": {"type": "integer"},
                "amount": {"type": "integer"},
                "mode": {"type": "string"},
                "reference": {"type": "string"}
            },
            "required": ["usn", "amount", "mode"]
        },
        "MarkPaidRequest": {
            "type": "object",
            "properties": {
                "usn": {"type": "string"},
                "fee_type": {"type": "string", "enum": ["college", "transport", "hostel", "placement"]},
                "reference": {"type": "string"}
            },
            "required": ["usn", "fee_type"]
        },
        "GovernmentFeeRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer"}
            },
            "required": ["amount"]
        },
        "HostelFeeRequest": {
            "type": "object",
            "properties": {
                "usn": {"type": "string"},
                "amount": {"type": "integer"}
            },
            "required": ["usn", "amount"]
        },
        "CategoryPaymentRequest": {
            "type": "object",
            "properties": {
                "usn": {"type": "string"},
                "amount": {"type": "integer"},
                "mode": {"type": "string"},
                "reference": {"type": "string"}
            },
            "required": ["usn", "amount", "mode"]
        },
        "PlacementAssignRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "amount": {"type": "integer"}
            },
            "required": ["year", "amount"]
        },
        "IssueBookRequest": {
            "type": "object",
            "properties": {
                "usn": {"type": "string"},
                "book_title": {"type": "string"},
                "book_id": {"type": "string"},
                "loan_days": {"type": "integer"}
            },
            "required": ["usn", "book_title", "book_id"]
        },
        "ReturnBookRequest": {
            "type": "object",
            "properties": {
                "lost": {"type": "boolean"},
                "fine": {"type": "integer"},
                "remarks": {"type": "string"}
            }
        },
        "ExamNotificationRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "year": {"type": "integer"},
                "semester": {"type": "integer"},
                "exam_type": {"type": "string", "enum": ["regular", "supplementary"]},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "last_date_without_fine": {"type": "string"},
                "exam_fee_amount": {"type": "integer"},
                "late_fee": {"type": "integer"},
                "description": {"type": "string"},
                "is_active": {"type": "boolean"}
            },
            "required": ["title", "year", "exam_type", "start_date", "end_date"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

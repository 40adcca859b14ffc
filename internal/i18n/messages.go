package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                 "Invalid request parameters",
		"error.unauthorized":                "Unauthorized",
		"error.forbidden":                   "You do not have permission to perform this action",
		"error.not_found":                   "Resource not found",
		"error.internal_error":              "Internal server error",
		"error.too_many_requests":           "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":      "Rate limiter is unavailable, please retry later",
		"error.jwt_secret_missing":          "Authentication is not configured",
		"error.auth_header_missing":         "Missing Authorization header",
		"error.auth_header_invalid":         "Authorization header must be Bearer token",
		"error.token_invalid":               "Invalid or expired token",
		"error.token_revoked":               "Token has been revoked, please sign in again",
		"error.user_disabled":               "Account is disabled",
		"error.login_invalid":               "Incorrect email or password",
		"error.user_id_invalid":             "Invalid user id",
		"error.user_id_type_invalid":        "Invalid user id type",
		"error.post_not_found":              "Post not found",
		"error.translation_not_found":       "Translation not found",
		"error.revision_not_found":          "Revision not found",
		"error.version_invalid":             "Invalid revision version",
		"error.slug_conflict":               "Slug \"%s\" already exists for locale \"%s\"",
		"error.concurrent_edit":             "The post was modified concurrently, please retry",
		"error.preview_token_invalid":       "Invalid or expired preview token",
		"error.locale_invalid":              "Unsupported locale",
		"error.translation_required":        "At least one translation is required",
		"error.translation_fields_required": "Title and slug are required for every translation",
		"error.translation_duplicate":       "Each locale may appear only once",
		"error.slug_invalid":                "Slug may only contain lowercase letters, digits and hyphens",
		"error.status_invalid":              "Invalid post status",
		"error.category_not_found":          "Category not found",
		"error.tag_not_found":               "Tag not found",
		"error.post_save_failed":            "Failed to save post",
		"error.post_fetch_failed":           "Failed to load post",
		"error.audit_fetch_failed":          "Failed to load audit logs",
		"error.dashboard_fetch_failed":      "Failed to load dashboard statistics",
		"error.user_email_exists":           "A user with this email already exists",
		"error.role_invalid":                "Invalid role",
		"error.policy_invalid":              "Policies must target an /admin/ route with a valid HTTP method",
		"error.policy_protected":            "The administrator wildcard policy cannot be revoked",
		"error.password_min_length":         "Password must be at least %d characters",
		"error.password_require_upper":      "Password must contain an uppercase letter",
		"error.password_require_lower":      "Password must contain a lowercase letter",
		"error.password_require_number":     "Password must contain a digit",
		"error.password_require_special":    "Password must contain a special character",
		"error.password_max_length":         "Password must be at most %d bytes",
		"error.password_contains_email":     "Password must not contain the email name",
		"error.conflict":                    "The request conflicts with the current state",
	},
	LocaleVI: {
		"error.bad_request":                 "Tham số yêu cầu không hợp lệ",
		"error.unauthorized":                "Chưa xác thực",
		"error.forbidden":                   "Bạn không có quyền thực hiện thao tác này",
		"error.not_found":                   "Không tìm thấy tài nguyên",
		"error.internal_error":              "Lỗi máy chủ nội bộ",
		"error.too_many_requests":           "Quá nhiều yêu cầu, vui lòng thử lại sau %d giây",
		"error.rate_limit_unavailable":      "Bộ giới hạn tần suất tạm thời không khả dụng, vui lòng thử lại sau",
		"error.jwt_secret_missing":          "Chưa cấu hình xác thực",
		"error.auth_header_missing":         "Thiếu header Authorization",
		"error.auth_header_invalid":         "Header Authorization phải là Bearer token",
		"error.token_invalid":               "Token không hợp lệ hoặc đã hết hạn",
		"error.token_revoked":               "Token đã bị thu hồi, vui lòng đăng nhập lại",
		"error.user_disabled":               "Tài khoản đã bị vô hiệu hóa",
		"error.login_invalid":               "Email hoặc mật khẩu không đúng",
		"error.user_id_invalid":             "ID người dùng không hợp lệ",
		"error.user_id_type_invalid":        "Kiểu ID người dùng không hợp lệ",
		"error.post_not_found":              "Không tìm thấy bài viết",
		"error.translation_not_found":       "Không tìm thấy bản dịch",
		"error.revision_not_found":          "Không tìm thấy phiên bản",
		"error.version_invalid":             "Số phiên bản không hợp lệ",
		"error.slug_conflict":               "Slug \"%s\" đã tồn tại cho ngôn ngữ \"%s\"",
		"error.concurrent_edit":             "Bài viết vừa được chỉnh sửa đồng thời, vui lòng thử lại",
		"error.preview_token_invalid":       "Token xem trước không hợp lệ hoặc đã hết hạn",
		"error.locale_invalid":              "Ngôn ngữ không được hỗ trợ",
		"error.translation_required":        "Cần ít nhất một bản dịch",
		"error.translation_fields_required": "Mỗi bản dịch cần có tiêu đề và slug",
		"error.translation_duplicate":       "Mỗi ngôn ngữ chỉ được xuất hiện một lần",
		"error.slug_invalid":                "Slug chỉ gồm chữ thường, chữ số và dấu gạch ngang",
		"error.status_invalid":              "Trạng thái bài viết không hợp lệ",
		"error.category_not_found":          "Không tìm thấy danh mục",
		"error.tag_not_found":               "Không tìm thấy thẻ",
		"error.post_save_failed":            "Lưu bài viết thất bại",
		"error.post_fetch_failed":           "Tải bài viết thất bại",
		"error.audit_fetch_failed":          "Tải nhật ký kiểm toán thất bại",
		"error.dashboard_fetch_failed":      "Tải thống kê thất bại",
		"error.user_email_exists":           "Email này đã được sử dụng",
		"error.role_invalid":                "Vai trò không hợp lệ",
		"error.policy_invalid":              "Chính sách phải áp dụng cho tuyến /admin/ với phương thức HTTP hợp lệ",
		"error.policy_protected":            "Không thể thu hồi chính sách toàn quyền của quản trị viên",
		"error.password_min_length":         "Mật khẩu phải có ít nhất %d ký tự",
		"error.password_require_upper":      "Mật khẩu phải chứa chữ in hoa",
		"error.password_require_lower":      "Mật khẩu phải chứa chữ thường",
		"error.password_require_number":     "Mật khẩu phải chứa chữ số",
		"error.password_require_special":    "Mật khẩu phải chứa ký tự đặc biệt",
		"error.password_max_length":         "Mật khẩu không được vượt quá %d byte",
		"error.password_contains_email":     "Mật khẩu không được chứa tên email",
		"error.conflict":                    "Yêu cầu xung đột với trạng thái hiện tại",
	},
}

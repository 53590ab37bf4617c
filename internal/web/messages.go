package web

import (
	"html/template"
	"strings"
)

// messages is the UI copy for one language
type messages struct {
	Lang           string
	Title          string
	Tagline        string
	SettingsTitle  string
	LLMKeyLabel    string
	SearchKeyLabel string
	KeyHint        string
	KeysSaved      string
	GetKeys        template.HTML
	Steps          []string
	ClaimLabel     string
	ClaimHint      string
	UploadLabel    string
	ExtractButton  string
	ExtractedLabel string
	PreviewLabel   string
	LinkLabel      string
	VerifyButton   string
	Spinner        string
	Done           string
	ResultsTitle   string
	CheckedAt      string
	Footer         string

	MissingKeys    string
	EmptyClaim     string
	NoImage        string
	UnsupportedImg string
	TooLarge       string
	NoText         string
	OCRUnavailable string
	OCRError       string // prefix for processing errors
	ResolveError   string // wraps the underlying message
	Timeout        string
	Busy           string
}

var english = messages{
	Lang:           "en",
	Title:          "FactCheck AI",
	Tagline:        "Automatic news verification against real-time press and official sources.",
	SettingsTitle:  "Settings",
	LLMKeyLabel:    "OpenAI API Key",
	SearchKeyLabel: "SerpAPI Key",
	KeyHint:        "Keys are kept in memory for this browser session only.",
	KeysSaved:      "saved for this session, leave blank to keep",
	GetKeys:        `Get keys at <a href="https://platform.openai.com/api-keys">openai.com</a> and <a href="https://serpapi.com/users/sign_up">serpapi.com</a>.`,
	Steps: []string{
		"Enter both API keys.",
		"Paste the text or link, or upload an image of the rumour.",
		"Press \"Verify now\".",
		"Image checks need the Tesseract OCR engine installed on the server.",
	},
	ClaimLabel:     "Paste the rumour or news link to verify:",
	ClaimHint:      "Example: Vietnam is about to pass a new property tax law...",
	UploadLabel:    "Or upload a screenshot or image of the rumour (PNG, JPG):",
	ExtractButton:  "Extract text",
	ExtractedLabel: "Text extracted from the image:",
	PreviewLabel:   "Uploaded image",
	LinkLabel:      "Checking link",
	VerifyButton:   "Verify now",
	Spinner:        "The AI is scanning news outlets and cross-checking sources...",
	Done:           "Verification complete!",
	ResultsTitle:   "Analysis",
	CheckedAt:      "Checked at",
	Footer:         "Powered by AI-driven fact-checking technology",

	MissingKeys:    "Please enter both API keys in the sidebar!",
	EmptyClaim:     "Please enter some text or upload an image containing text to check.",
	NoImage:        "Please choose an image to upload.",
	UnsupportedImg: "Only PNG and JPEG images are supported.",
	TooLarge:       "The upload is too large. Please choose a smaller image.",
	NoText:         "No text found in the image. Please try again with a clearer image.",
	OCRUnavailable: "Tesseract OCR engine was not found. Please install Tesseract on the server (see the instructions in the sidebar).",
	OCRError:       "Error processing image: ",
	ResolveError:   "An error occurred: %s. Make sure the API keys are valid and the content is clear enough for the AI to analyse.",
	Timeout:        "Verification timed out before the AI reached a conclusion. Try again with a shorter or more specific claim.",
	Busy:           "A verification is already running for this session. Please wait for it to finish.",
}

var vietnamese = messages{
	Lang:           "vi",
	Title:          "FactCheck AI",
	Tagline:        "Hệ thống tự động xác thực tin tức dựa trên dữ liệu báo chí thời gian thực.",
	SettingsTitle:  "Cấu hình hệ thống",
	LLMKeyLabel:    "OpenAI API Key",
	SearchKeyLabel: "SerpAPI Key",
	KeyHint:        "Key chỉ được lưu trong bộ nhớ cho phiên làm việc này.",
	KeysSaved:      "đã lưu cho phiên này, để trống để giữ nguyên",
	GetKeys:        `Nhận key tại: <a href="https://platform.openai.com/api-keys">openai.com</a> và <a href="https://serpapi.com/users/sign_up">serpapi.com</a>`,
	Steps: []string{
		"Nhập API Keys.",
		"Dán văn bản hoặc tải ảnh tin đồn lên.",
		"Nhấn 'KIỂM CHỨNG NGAY'.",
		"Đối với kiểm tra ảnh, hãy đảm bảo Tesseract OCR đã được cài đặt trên máy chủ.",
	},
	ClaimLabel:     "Dán đoạn tin đồn hoặc link báo cần kiểm chứng vào đây:",
	ClaimHint:      "Ví dụ: Việt Nam sắp ban hành luật mới về thuế tài sản...",
	UploadLabel:    "Tải ảnh chụp màn hình hoặc hình ảnh tin đồn lên:",
	ExtractButton:  "Trích xuất văn bản",
	ExtractedLabel: "Văn bản trích xuất từ hình ảnh:",
	PreviewLabel:   "Ảnh đã tải lên",
	LinkLabel:      "Đang kiểm tra liên kết",
	VerifyButton:   "KIỂM CHỨNG NGAY",
	Spinner:        "AI đang quét các mặt báo và đối chiếu dữ liệu...",
	Done:           "Đã hoàn tất kiểm chứng!",
	ResultsTitle:   "Kết quả phân tích",
	CheckedAt:      "Thời gian kiểm tra",
	Footer:         "Sản phẩm được hỗ trợ bởi AI-driven Fact-checking Technology",

	MissingKeys:    "Vui lòng nhập đầy đủ API Keys ở thanh bên trái!",
	EmptyClaim:     "Vui lòng nhập nội dung hoặc tải ảnh có văn bản để kiểm tra.",
	NoImage:        "Vui lòng chọn một hình ảnh để tải lên.",
	UnsupportedImg: "Chỉ hỗ trợ ảnh PNG và JPEG.",
	TooLarge:       "Tệp tải lên quá lớn. Vui lòng chọn ảnh nhỏ hơn.",
	NoText:         "Không tìm thấy văn bản nào trong ảnh. Vui lòng thử lại với ảnh rõ ràng hơn.",
	OCRUnavailable: "Lỗi: Tesseract OCR engine không được tìm thấy. Vui lòng cài đặt Tesseract trên hệ thống của bạn (xem hướng dẫn ở sidebar).",
	OCRError:       "Lỗi khi xử lý hình ảnh: ",
	ResolveError:   "Có lỗi xảy ra: %s. Hãy đảm bảo API keys hợp lệ và nội dung đủ rõ ràng để AI phân tích.",
	Timeout:        "Quá thời gian kiểm chứng trước khi AI đưa ra kết luận. Hãy thử lại với nội dung ngắn gọn, cụ thể hơn.",
	Busy:           "Phiên này đang có một yêu cầu kiểm chứng. Vui lòng chờ hoàn tất.",
}

func messagesFor(lang string) messages {
	if strings.EqualFold(lang, "vi") {
		return vietnamese
	}
	return english
}

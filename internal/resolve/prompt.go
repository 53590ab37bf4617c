package resolve

import (
	"fmt"
	"strings"
)

const instructionEN = `You are a fact-checking expert. Verify the following claim: "%s"
Requirements:
1. Find sources from major outlets and official bodies (.gov, .org, reputable .com news sites, government portals).
2. Return the result in clean Markdown using exactly this format:
   - **CONCLUSION**: [TRUE/FALSE/UNVERIFIED]
   - **CONFIDENCE**: [X%%]
   - **ANALYSIS**: (A brief summary of the reasoning)
   - **SOURCES**: (List of links)
`

const instructionVI = `Bạn là một chuyên gia kiểm chứng tin tức. Hãy xác thực tin sau: "%s"
Yêu cầu:
1. Tìm các nguồn tin từ báo lớn (.vn, .gov, .org, .com uy tín).
2. Trả về kết quả theo định dạng Markdown đẹp mắt:
   - **KẾT LUẬN**: [ĐÚNG/SAI/CẦN KIỂM CHỨNG]
   - **ĐỘ TIN CẬY**: [X%%]
   - **PHÂN TÍCH**: (Tóm tắt ngắn gọn lý do)
   - **NGUỒN ĐỐI CHỨNG**: (Danh sách link)
`

// BuildInstruction embeds the claim into the verification template for lang ("en" or "vi")
func BuildInstruction(claim, lang string) (string, error) {
	switch strings.ToLower(lang) {
	case "", "en":
		return fmt.Sprintf(instructionEN, claim), nil
	case "vi":
		return fmt.Sprintf(instructionVI, claim), nil
	default:
		return "", fmt.Errorf("unsupported prompt language: %s (supported: en, vi)", lang)
	}
}

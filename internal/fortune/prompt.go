package fortune

import "fmt"

const promptTemplate = `당신은 전문 운세 상담가입니다. 다음 정보를 바탕으로 %[4]d년 신년 운세를 작성해주세요.

이름: %[1]s
생년월일: %[2]s
관심 주제: %[3]s

요구사항:
1. 구체적이고 긍정적인 톤으로 작성
2. 3-4개의 문단으로 구성
3. 각 문단은 다음과 같은 구조로 작성:
   - 첫 번째 문단: %[4]d년 %[3]s의 전반적인 흐름과 기운
   - 두 번째 문단: 상반기의 구체적인 조언과 기회
   - 세 번째 문단: 하반기의 변화와 성장 포인트
   - 네 번째 문단: 한 해를 마무리하는 격려와 실천 사항
4. 각 문단은 4-5문장 정도로 작성
5. 구체적인 조언과 실천 가능한 팁 포함
6. 희망적이고 동기부여가 되는 메시지로 마무리

운세를 작성할 때는 일반적인 내용보다는 %[1]s님의 생년월일과 선택한 주제에 맞춤화된 내용으로 작성해주세요.`

// BuildPrompt renders the fortune prompt. Output is deterministic in its inputs.
func BuildPrompt(name, birthDate, topicLabel string, year int) string {
	return fmt.Sprintf(promptTemplate, name, birthDate, topicLabel, year)
}

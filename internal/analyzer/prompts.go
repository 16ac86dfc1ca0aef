package analyzer

const systemPrompt = `You are an expert in user research and online behavior analysis. You study a Reddit
user's public posts and comments to build a user persona: who they are, what they care about,
how they behave online and how they write. Be specific and cite concrete examples, quoting the
text and linking the permalink it came from. Avoid generic statements and never invent facts
that the data does not support. Write in third person about the user.`

const interestsPrompt = `Analyze this Reddit user's interests and community involvement based on their posts.

User: u/%s

SUBREDDIT DISTRIBUTION (posts and comments):
%s

POSTS:
%s

Extract the following with CONCRETE examples:
1. Main interests and hobbies, ranked by how much they post about them
2. Which communities they belong to and what role they play there (asker, expert, lurker who posts rarely, organizer)
3. Professional or academic clues (job, field of study, skills) with the evidence for each
4. Life context clues (location, age range, family, lifestyle) with the evidence for each, or say none were found
5. What they seem to want from Reddit (advice, entertainment, debate, helping others, promotion)

Quote post titles and link their permalinks. Be specific.`

const voicePrompt = `Analyze this Reddit user's voice and behavior based on their comments.

User: u/%s

COMMENTS (with the thread each one replied to):
%s

Extract the following with CONCRETE examples:
1. Tone (friendly, sarcastic, earnest, combative, supportive) and how it shifts between communities
2. Typical comment length and structure (one-liners, paragraphs, lists, links)
3. Characteristic phrases, slang, punctuation, emoji or formatting habits
4. How they handle disagreement and how they give advice
5. What triggers them to comment at all (questions they can answer, topics they care about, things that annoy them)
6. Recurring frustrations and recurring sources of enthusiasm

Quote actual comments and link their permalinks. Be specific.`

const synthesisPrompt = `You have analyzed a Reddit user's activity along two dimensions and computed
descriptive statistics over all of their content. Now synthesize everything into a unified user persona.

User: u/%s

QUANTITATIVE SIGNALS (computed from the data, treat as evidence):
%s

INTERESTS AND COMMUNITIES ANALYSIS:
%s

VOICE AND BEHAVIOR ANALYSIS:
%s

RAW CONTENT SAMPLE:
%s

Respond with a single JSON object (no markdown, no commentary) with these fields:

{
  "summary": "Two or three sentences describing who this user is.",
  "demographics": "Likely age range, occupation, location and life stage, each with the evidence. Say 'Unknown' for anything the data does not reveal.",
  "interests": "Their main interests and communities, most important first.",
  "motivations": "What drives them to post and comment.",
  "personality": "Personality traits, consistent with the quantitative signals where possible.",
  "behaviours_and_habits": "Posting habits, timing, typical activities on Reddit.",
  "frustrations": "What annoys or worries them.",
  "goals_and_needs": "What they are trying to achieve or get help with.",
  "communication_style": "How they write, with example phrasings.",
  "notable_quotes": "Two or three short quotes, each followed by its permalink."
}

All values must be non-empty strings. Every claim must be backed by evidence: cite the permalink
of the post or comment it comes from, in the form (source: <permalink>).`

const compareSystemPrompt = `You are an expert in behavioral analysis and user comparison. You compare two
Reddit users based on samples of their posts and comments. Cite specific examples from the samples.`

const comparePrompt = `Compare these two Reddit users and provide a detailed comparison report.

USER 1 (u/%s):
Signals:
%s
Content:
%s

USER 2 (u/%s):
Signals:
%s
Content:
%s

Write the report in Markdown with exactly these sections:
1. **Common Interests & Similarities**
2. **Key Differences in Personality**
3. **Communication Style Comparison**
4. **Engagement Pattern Differences**
5. **Subreddit Preferences Comparison**
6. **Overall Compatibility Assessment**

For each section, cite specific examples from their posts and comments.`

package httpserver

// consoleHTML is the embedded console page: the submission form, the progress
// area, the mount point for the server-rendered report, and the agent
// capability section. All analysis markup comes pre-rendered from the server;
// the page script only wires events and polls progress.
const consoleHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>ARQ Console</title>
<style>
  :root {
    --bg: #0d1117;
    --surface: #161b22;
    --surface-hover: #1c2129;
    --border: #30363d;
    --text: #e6edf3;
    --text-dim: #8b949e;
    --accent: #58a6ff;
    --green: #3fb950;
    --yellow: #d29922;
    --red: #f85149;
    --purple: #bc8cff;
  }
  * { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif;
    background: var(--bg);
    color: var(--text);
    font-size: 14px;
    line-height: 1.5;
    padding: 16px;
    max-width: 1100px;
    margin: 0 auto;
  }
  header {
    display: flex;
    align-items: center;
    justify-content: space-between;
    margin-bottom: 16px;
    padding-bottom: 12px;
    border-bottom: 1px solid var(--border);
  }
  header h1 { font-size: 20px; font-weight: 600; }
  header h1 span { color: var(--accent); }
  .meta { font-size: 12px; color: var(--text-dim); }

  .card {
    background: var(--surface);
    border: 1px solid var(--border);
    border-radius: 8px;
    margin-bottom: 16px;
    overflow: hidden;
  }
  .card-header {
    padding: 10px 14px;
    border-bottom: 1px solid var(--border);
    font-weight: 600;
    font-size: 13px;
    text-transform: uppercase;
    letter-spacing: 0.5px;
    color: var(--text-dim);
  }
  .card-body { padding: 14px; }

  /* Form */
  .form-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; }
  @media (max-width: 700px) { .form-grid { grid-template-columns: 1fr; } }
  .form-field { display: flex; flex-direction: column; gap: 4px; }
  .form-field.wide { grid-column: 1 / -1; }
  .form-field label { font-size: 12px; color: var(--text-dim); }
  .form-field input, .form-field textarea {
    background: var(--bg);
    color: var(--text);
    border: 1px solid var(--border);
    border-radius: 6px;
    padding: 8px 10px;
    font-size: 13px;
    font-family: inherit;
  }
  .form-field textarea { min-height: 64px; resize: vertical; }
  .form-actions { grid-column: 1 / -1; display: flex; justify-content: flex-end; }

  .btn {
    font-size: 13px;
    font-weight: 600;
    padding: 8px 16px;
    border-radius: 6px;
    border: 1px solid var(--border);
    cursor: pointer;
    transition: background 0.15s, border-color 0.15s;
  }
  .btn-primary { background: #0c2d6b; color: var(--accent); border-color: #1a3f7a; }
  .btn-primary:hover { background: #163d8c; border-color: var(--accent); }
  .btn-primary:disabled { opacity: 0.5; cursor: not-allowed; }
  .btn-secondary { background: var(--surface); color: var(--text-dim); }
  .btn-secondary:hover { background: var(--surface-hover); color: var(--text); }

  /* Progress */
  #progress-card { display: none; }
  .progress-track {
    width: 100%;
    height: 8px;
    background: var(--border);
    border-radius: 4px;
    overflow: hidden;
    margin-bottom: 8px;
  }
  .progress-fill {
    height: 100%;
    width: 0%;
    background: var(--accent);
    border-radius: 4px;
    transition: width 0.4s ease;
  }
  .progress-row { display: flex; justify-content: space-between; font-size: 12px; color: var(--text-dim); }
  #progress-message { color: var(--text); }

  /* Floating alerts */
  #alerts { position: fixed; top: 16px; right: 16px; z-index: 200; display: flex; flex-direction: column; gap: 8px; }
  .alert-float {
    background: #2d1a1a;
    color: var(--red);
    border: 1px solid #49282c;
    border-radius: 8px;
    padding: 10px 14px;
    font-size: 13px;
    max-width: 380px;
    box-shadow: 0 4px 16px rgba(0,0,0,0.4);
  }

  /* Report (server-rendered fragment) */
  .report-header {
    display: flex;
    align-items: center;
    justify-content: space-between;
    flex-wrap: wrap;
    gap: 8px;
    margin-bottom: 12px;
  }
  .report-header h2 { font-size: 17px; }
  .report-actions { display: flex; gap: 8px; }
  .tabs { display: flex; flex-wrap: wrap; gap: 4px; border-bottom: 1px solid var(--border); margin-bottom: 12px; }
  .tab {
    background: none;
    border: none;
    border-bottom: 2px solid transparent;
    color: var(--text-dim);
    padding: 8px 12px;
    font-size: 13px;
    cursor: pointer;
  }
  .tab:hover { color: var(--text); }
  .tab.active { color: var(--accent); border-bottom-color: var(--accent); }
  .tab-pane { display: none; }
  .tab-pane.active { display: block; }

  .section-title { font-size: 15px; margin: 14px 0 8px; color: var(--text); }
  .field { margin: 4px 0; font-size: 13px; }
  .field-label { color: var(--text-dim); }
  .alert { border-radius: 6px; padding: 8px 12px; font-size: 13px; margin: 8px 0; }
  .alert-info { background: #1f2d3d; color: var(--accent); }
  .alert-warning { background: #2a1f0d; color: var(--yellow); }
  .stat-grid { display: flex; flex-wrap: wrap; gap: 8px; margin: 8px 0; }
  .stat {
    background: var(--bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 10px 14px;
    min-width: 140px;
    flex: 1;
  }
  .stat-value { font-size: 16px; font-weight: 600; color: var(--accent); }
  .stat-label { font-size: 11px; color: var(--text-dim); text-transform: uppercase; letter-spacing: 0.3px; }
  .meter-list { margin: 8px 0; }
  .meter { margin-bottom: 8px; }
  .meter-label { font-size: 12px; color: var(--text-dim); margin-bottom: 2px; }
  .meter-value { color: var(--purple); font-weight: 600; }
  .meter-track { height: 6px; background: var(--border); border-radius: 3px; overflow: hidden; }
  .meter-fill { height: 100%; background: var(--purple); border-radius: 3px; }
  .card-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(300px, 1fr)); gap: 10px; margin: 8px 0; }
  .report-card {
    background: var(--bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 12px 14px;
  }
  .card-title { font-weight: 600; font-size: 14px; }
  .card-subtitle { font-size: 12px; color: var(--purple); margin-bottom: 6px; }
  .bullet-block ul { padding-left: 18px; font-size: 13px; }
  .bullet-block li { margin: 3px 0; }
  .block-title { font-size: 12px; font-weight: 600; color: var(--text-dim); margin: 6px 0 2px; text-transform: uppercase; letter-spacing: 0.3px; }
  .kv-block dl { font-size: 13px; }
  .kv-block dt { color: var(--text-dim); margin-top: 6px; font-size: 12px; }
  .kv-block dd { margin-left: 0; }
  .accordion { border: 1px solid var(--border); border-radius: 6px; margin: 8px 0; overflow: hidden; }
  .accordion-toggle {
    width: 100%;
    text-align: left;
    background: var(--surface-hover);
    color: var(--text);
    border: none;
    padding: 8px 12px;
    font-size: 13px;
    font-weight: 600;
    cursor: pointer;
  }
  .accordion-toggle::before { content: '\25B8 '; color: var(--text-dim); }
  .accordion.open .accordion-toggle::before { content: '\25BE '; }
  .accordion-body { display: none; padding: 8px 12px; }
  .accordion.open .accordion-body { display: block; }

  /* Agents */
  .agent-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 10px; }
  .agent-card {
    background: var(--bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 12px 14px;
  }
  .agent-name { font-weight: 600; font-size: 13px; }
  .agent-mission { font-size: 12px; color: var(--text-dim); margin: 4px 0 8px; }
  .agent-tags { display: flex; flex-wrap: wrap; gap: 4px; margin-bottom: 8px; }
  .agent-tag {
    font-size: 10px;
    padding: 1px 6px;
    border-radius: 4px;
    background: var(--border);
    color: var(--text-dim);
    text-transform: uppercase;
    letter-spacing: 0.3px;
  }
  .empty { padding: 18px; text-align: center; color: var(--text-dim); font-size: 13px; }

  /* Modal */
  .modal-overlay {
    display: none;
    position: fixed;
    inset: 0;
    background: rgba(0,0,0,0.6);
    z-index: 100;
    align-items: center;
    justify-content: center;
  }
  .modal-overlay.open { display: flex; }
  .modal {
    background: var(--surface);
    border: 1px solid var(--border);
    border-radius: 12px;
    padding: 20px;
    max-width: 560px;
    width: 92%;
    max-height: 80vh;
    overflow-y: auto;
    box-shadow: 0 8px 32px rgba(0,0,0,0.4);
  }
  .modal h2 { font-size: 15px; margin-bottom: 10px; color: var(--accent); }
  .modal pre {
    background: var(--bg);
    border: 1px solid var(--border);
    border-radius: 6px;
    padding: 10px;
    font-size: 12px;
    overflow-x: auto;
    white-space: pre-wrap;
    word-break: break-word;
  }
  .modal-actions { display: flex; justify-content: flex-end; margin-top: 14px; }
</style>
</head>
<body>
<header>
  <h1>ARQ <span>Console</span></h1>
  <span class="meta">Análise ultra-detalhada com agentes psicológicos</span>
</header>

<div id="alerts"></div>

<div class="card">
  <div class="card-header">Nova Análise</div>
  <div class="card-body">
    <form id="analysis-form" class="form-grid">
      <div class="form-field">
        <label for="segmento">Segmento *</label>
        <input id="segmento" name="segmento" required placeholder="Ex.: Produtos Digitais">
      </div>
      <div class="form-field">
        <label for="produto">Produto</label>
        <input id="produto" name="produto" placeholder="Ex.: Curso Online">
      </div>
      <div class="form-field">
        <label for="publico">Público</label>
        <input id="publico" name="publico" placeholder="Ex.: Empreendedores">
      </div>
      <div class="form-field">
        <label for="preco">Preço</label>
        <input id="preco" name="preco" placeholder="Ex.: 997">
      </div>
      <div class="form-field wide">
        <label for="descricao">Descrição</label>
        <textarea id="descricao" name="descricao"></textarea>
      </div>
      <div class="form-field wide">
        <label for="concorrentes">Concorrentes</label>
        <input id="concorrentes" name="concorrentes">
      </div>
      <div class="form-field wide">
        <label for="dados_adicionais">Dados adicionais</label>
        <textarea id="dados_adicionais" name="dados_adicionais"></textarea>
      </div>
      <div class="form-actions">
        <button class="btn btn-primary" id="submit-btn" type="submit">Iniciar Análise</button>
      </div>
    </form>
  </div>
</div>

<div class="card" id="progress-card">
  <div class="card-header">Progresso</div>
  <div class="card-body">
    <div class="progress-track"><div class="progress-fill" id="progress-fill"></div></div>
    <div class="progress-row">
      <span id="progress-message">Iniciando...</span>
      <span><span id="progress-steps">0/0</span> &middot; restante <span id="progress-time">0:00</span></span>
    </div>
  </div>
</div>

<div id="result"></div>

<div class="card">
  <div class="card-header">Agentes Psicológicos</div>
  <div class="card-body"><div class="agent-grid" id="agents"></div></div>
</div>

<div class="modal-overlay" id="test-modal">
  <div class="modal">
    <h2 id="test-modal-title">Teste de Agente</h2>
    <pre id="test-modal-body"></pre>
    <div class="modal-actions">
      <button class="btn btn-secondary" id="test-modal-close" type="button">Fechar</button>
    </div>
  </div>
</div>

<script>
let pollTimer = null;
let currentSession = null;

function esc(s) {
  if (!s) return '';
  const d = document.createElement('div');
  d.textContent = s;
  return d.innerHTML;
}

function showAlert(msg) {
  const el = document.createElement('div');
  el.className = 'alert-float';
  el.textContent = msg;
  document.getElementById('alerts').appendChild(el);
  setTimeout(() => el.remove(), 5000);
}

function showProgress() {
  document.getElementById('progress-fill').style.width = '0%';
  document.getElementById('progress-message').textContent = 'Iniciando...';
  document.getElementById('progress-steps').textContent = '0/0';
  document.getElementById('progress-time').textContent = '0:00';
  document.getElementById('progress-card').style.display = '';
}

function hideProgress() {
  document.getElementById('progress-card').style.display = 'none';
}

function stopPolling() {
  if (pollTimer) { clearInterval(pollTimer); pollTimer = null; }
}

// One active poll at a time: any prior timer is cleared before the next
// submission starts its own.
function startPolling(sessionId) {
  stopPolling();
  currentSession = sessionId;
  pollTimer = setInterval(() => pollProgress(sessionId), 2000);
}

async function pollProgress(sessionId) {
  try {
    const resp = await fetch('/console/analyses/' + encodeURIComponent(sessionId) + '/progress');
    if (!resp.ok) return;
    const d = await resp.json();

    document.getElementById('progress-fill').style.width = (d.percentage || 0) + '%';
    document.getElementById('progress-message').textContent = d.current_message || '';
    document.getElementById('progress-steps').textContent = d.step_counter || '0/0';
    document.getElementById('progress-time').textContent = d.remaining_clock || '0:00';

    if (d.status === 'failed') {
      stopPolling();
      hideProgress();
      showAlert('Erro na análise: ' + (d.error || 'falha desconhecida'));
      return;
    }
    if (d.is_complete) {
      stopPolling();
      await loadResult(sessionId);
      setTimeout(hideProgress, 800);
    }
  } catch (e) {
    // transient; next tick self-corrects
    console.error('progress poll failed', e);
  }
}

async function loadResult(sessionId) {
  const resp = await fetch('/console/analyses/' + encodeURIComponent(sessionId) + '/result');
  if (!resp.ok) {
    showAlert(await resp.text());
    return;
  }
  const mount = document.getElementById('result');
  mount.innerHTML = await resp.text();
  wireReport(mount);
  mount.scrollIntoView({ behavior: 'smooth' });
}

// Event wiring happens after insertion, against the mounted fragment; the
// generated markup carries no inline handlers.
function wireReport(mount) {
  mount.querySelectorAll('.tab').forEach(tab => {
    tab.addEventListener('click', () => {
      mount.querySelectorAll('.tab').forEach(t => t.classList.remove('active'));
      mount.querySelectorAll('.tab-pane').forEach(p => p.classList.remove('active'));
      tab.classList.add('active');
      const pane = mount.querySelector('#pane-' + tab.dataset.tab);
      if (pane) pane.classList.add('active');
    });
  });
  mount.querySelectorAll('.accordion-toggle').forEach(btn => {
    btn.addEventListener('click', () => btn.parentElement.classList.toggle('open'));
  });
  mount.querySelectorAll('[data-action]').forEach(btn => {
    btn.addEventListener('click', () => {
      if (btn.dataset.action === 'download-pdf') downloadPDF();
      if (btn.dataset.action === 'save-json') saveJSON();
      if (btn.dataset.action === 'new-analysis') resetConsole();
    });
  });
}

function resetConsole() {
  document.getElementById('result').innerHTML = '';
  document.getElementById('analysis-form').reset();
  window.scrollTo({ top: 0, behavior: 'smooth' });
}

function downloadBlob(blob, name) {
  const url = URL.createObjectURL(blob);
  const a = document.createElement('a');
  a.href = url;
  a.download = name;
  document.body.appendChild(a);
  a.click();
  a.remove();
  URL.revokeObjectURL(url);
}

function filenameFrom(resp, fallback) {
  const cd = resp.headers.get('Content-Disposition') || '';
  const m = cd.match(/filename="?([^";]+)"?/);
  return m ? m[1] : fallback;
}

async function downloadPDF() {
  try {
    const resp = await fetch('/console/export/pdf', { method: 'POST' });
    if (!resp.ok) { showAlert(await resp.text()); return; }
    downloadBlob(await resp.blob(), filenameFrom(resp, 'analise.pdf'));
  } catch (e) {
    showAlert('Erro ao gerar PDF: ' + e.message);
  }
}

async function saveJSON() {
  try {
    const resp = await fetch('/console/export/json');
    if (!resp.ok) { showAlert(await resp.text()); return; }
    downloadBlob(await resp.blob(), filenameFrom(resp, 'analise.json'));
  } catch (e) {
    showAlert('Erro ao salvar JSON: ' + e.message);
  }
}

document.getElementById('analysis-form').addEventListener('submit', async function (e) {
  e.preventDefault();
  const btn = document.getElementById('submit-btn');
  const fields = {};
  new FormData(this).forEach((v, k) => { fields[k] = v; });

  btn.disabled = true;
  try {
    const resp = await fetch('/console/analyses', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(fields)
    });
    if (!resp.ok) {
      showAlert(await resp.text());
      hideProgress();
      return;
    }
    const d = await resp.json();
    showProgress();
    startPolling(d.session_id);
  } catch (err) {
    showAlert('Erro ao enviar análise: ' + err.message);
    hideProgress();
  } finally {
    btn.disabled = false;
  }
});

// Agent capability cards

async function loadAgents() {
  const el = document.getElementById('agents');
  try {
    const resp = await fetch('/console/agents');
    if (!resp.ok) return;
    const d = await resp.json();
    if (!d.agents || d.agents.length === 0) {
      el.innerHTML = '<div class="empty">Nenhum agente disponível</div>';
      return;
    }
    el.innerHTML = d.agents.map(a =>
      '<div class="agent-card">' +
        '<div class="agent-name">' + esc(a.name) + '</div>' +
        '<div class="agent-mission">' + esc(a.mission) + '</div>' +
        '<div class="agent-tags">' + (a.specialties || []).map(s => '<span class="agent-tag">' + esc(s) + '</span>').join('') + '</div>' +
        '<button class="btn btn-secondary" data-agent="' + esc(a.key) + '" type="button">Testar</button>' +
      '</div>'
    ).join('');
    el.querySelectorAll('[data-agent]').forEach(btn => {
      btn.addEventListener('click', () => testAgent(btn.dataset.agent));
    });
  } catch (e) {
    console.error('agent catalog load failed', e);
  }
}

async function testAgent(key) {
  const modal = document.getElementById('test-modal');
  const body = document.getElementById('test-modal-body');
  document.getElementById('test-modal-title').textContent = 'Teste: ' + key;
  body.textContent = 'Executando...';
  modal.classList.add('open');
  try {
    const resp = await fetch('/console/agents/test', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ agent: key })
    });
    if (!resp.ok) {
      body.textContent = await resp.text();
      return;
    }
    const d = await resp.json();
    body.textContent = 'success: ' + d.success + '\nstatus: ' + (d.status || 'unknown') +
      '\n\n' + JSON.stringify(d.result, null, 2);
  } catch (e) {
    body.textContent = 'Erro: ' + e.message;
  }
}

document.getElementById('test-modal-close').addEventListener('click', function () {
  document.getElementById('test-modal').classList.remove('open');
});
document.getElementById('test-modal').addEventListener('click', function (e) {
  if (e.target === this) this.classList.remove('open');
});

loadAgents();
</script>
</body>
</html>`
